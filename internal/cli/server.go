package cli

import (
	"github.com/spf13/cobra"
	"github.com/vk/cookcli/internal/config"
)

func newServerCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the JSON API and watch the recipe tree",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := e.open(cmd)
			if err != nil {
				return err
			}
			return a.Serve(ctx, a.Config().Server.Addr)
		},
	}
	cmd.Flags().String("addr", ":9080", "Listen address.")
	e.bind(cmd.Flags(), config.KeyServerAddr, "addr")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/render"
)

func newSearchCommand(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find recipes whose name or alias resembles the query",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return usageError(fmt.Errorf("--limit must not be negative, got %d", limit))
			}
			a, ctx, err := e.open(cmd)
			if err != nil {
				return err
			}
			candidates, err := a.Resolver().Search(ctx, args[0], limit)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Fprintf(e.stdout, "No recipes resemble %q.\n", args[0])
				return nil
			}
			table := render.NewTable(e.stdout, []string{"SCORE", "NAME", "PATH", "MATCHED BY"}, e.renderOptions())
			for _, c := range candidates {
				table.AddRow(quantity.FormatFixed(c.Score, 2), c.Entry.Name, c.Entry.RelPath, c.MatchedBy)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results. 0 lists every match.")
	return cmd
}

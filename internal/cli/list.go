package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/cookcli/internal/render"
)

type listEntry struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Aliases []string `json:"aliases,omitempty"`
}

type listOutput struct {
	Recipes  []listEntry `json:"recipes"`
	Warnings []string    `json:"warnings,omitempty"`
}

func newListCommand(e *env) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every recipe in the collection",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := e.open(cmd)
			if err != nil {
				return err
			}
			snap, err := a.Index().Snapshot(ctx)
			if err != nil {
				return err
			}
			snap.LoadAliases(ctx)

			out := listOutput{Recipes: make([]listEntry, 0, snap.Len())}
			for _, entry := range snap.Entries() {
				out.Recipes = append(out.Recipes, listEntry{
					Name:    entry.Name,
					Path:    entry.RelPath,
					Aliases: entry.Aliases(),
				})
			}
			for _, w := range snap.Warnings {
				out.Warnings = append(out.Warnings, w.Error())
			}

			if jsonOut {
				return render.JSON(e.stdout, out)
			}
			table := render.NewTable(e.stdout, []string{"NAME", "PATH", "ALIASES"}, e.renderOptions())
			for _, r := range out.Recipes {
				table.AddRow(r.Name, r.Path, strings.Join(r.Aliases, ", "))
			}
			table.Render()
			for _, w := range out.Warnings {
				cmd.PrintErrf("warning: %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the list as JSON.")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/vk/cookcli/internal/config"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/render"
	"github.com/vk/cookcli/internal/shopping"
)

func newShoppingListCommand(e *env) *cobra.Command {
	var fuzzy bool
	cmd := &cobra.Command{
		Use:   "shopping-list <ref[:factor]>...",
		Short: "Combine the ingredients of several recipes",
		Long: `Build a shopping list from one or more recipes.

Each reference may carry a scale factor after a colon. Compatible amounts of
the same ingredient are added up. Items are grouped by the aisle categories
of the aisle file.

Examples:
  cook shopping-list pancakes "tomato soup:2"
  cook shopping-list pancakes --aisle config/aisle.conf --format markdown`,
		Args: minimumArgs(1),
	}
	format := formatFlag(cmd)
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Accept a clear fuzzy match when nothing matches exactly.")
	cmd.Flags().String("aisle", "", "Aisle file assigning ingredients to categories.")
	e.bind(cmd.Flags(), config.KeyAisle, "aisle")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := parseFormat(*format)
		if err != nil {
			return err
		}
		for _, arg := range args {
			if _, _, err := shopping.ParseRef(arg); err != nil {
				return usageError(err)
			}
		}

		a, ctx, err := e.open(cmd)
		if err != nil {
			return err
		}
		inputs, err := shopping.Collect(ctx, a.Resolver(), args, fuzzy)
		if err != nil {
			return err
		}
		list := shopping.Build(inputs, a.Units(), a.Aisles())
		ctxlog.FromContext(ctx).Debug("Shopping list built.", "recipes", len(inputs), "items", list.Len())
		return render.ShoppingList(e.stdout, list, f, e.renderOptions())
	}
	return cmd
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/render"
	"github.com/vk/cookcli/internal/resolve"
)

func newRecipeCommand(e *env) *cobra.Command {
	var (
		servings float64
		scale    float64
		fuzzy    bool
	)
	cmd := &cobra.Command{
		Use:   "recipe <ref>",
		Short: "Show one recipe, optionally scaled",
		Long: `Resolve a recipe reference and print the recipe.

The reference is a recipe name, an alias declared in the recipe metadata or
a path fragment such as "soups/tomato". With --fuzzy, a close misspelling is
accepted when one recipe clearly matches best.

Examples:
  cook recipe pancakes
  cook recipe "tomato soup" --servings 8
  cook recipe soups/tomato --scale 0.5 --format json`,
		Args: exactArgs(1),
	}
	format := formatFlag(cmd)
	cmd.Flags().Float64Var(&servings, "servings", 0, "Scale the recipe to this many servings.")
	cmd.Flags().Float64Var(&scale, "scale", 0, "Multiply every scalable amount by this factor.")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Accept a clear fuzzy match when nothing matches exactly.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := parseFormat(*format)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("servings") && cmd.Flags().Changed("scale") {
			return usageError(errors.New("--servings and --scale cannot be used together"))
		}
		if cmd.Flags().Changed("servings") && servings <= 0 {
			return usageError(fmt.Errorf("--servings must be positive, got %v", servings))
		}
		if cmd.Flags().Changed("scale") && scale <= 0 {
			return usageError(fmt.Errorf("--scale must be positive, got %v", scale))
		}

		a, ctx, err := e.open(cmd)
		if err != nil {
			return err
		}
		res, err := a.Resolver().Resolve(ctx, args[0], resolve.Options{Fuzzy: fuzzy})
		if err != nil {
			return err
		}
		if err := res.Err(); err != nil {
			return err
		}
		ctxlog.FromContext(ctx).Debug("Recipe resolved.", "path", res.Entry.RelPath)

		doc := res.Document
		switch {
		case servings > 0:
			if doc.Metadata.Servings <= 0 {
				return fmt.Errorf("recipe %s declares no servings to scale from", res.Entry.RelPath)
			}
			doc = doc.Scale(servings / doc.Metadata.Servings)
		case scale > 0:
			doc = doc.Scale(scale)
		}
		return render.Recipe(e.stdout, doc, f, e.renderOptions())
	}
	return cmd
}

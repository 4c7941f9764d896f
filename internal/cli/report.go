package cli

import (
	"github.com/spf13/cobra"
	"github.com/vk/cookcli/internal/render"
	"github.com/vk/cookcli/internal/reporthcl"
)

func newReportCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <file.hcl>",
		Short: "Evaluate a report definition",
		Long: `Evaluate a report definition against the recipe collection.

A definition binds labels to recipe references, computes locals and writes
lines of text, which may loop over the ingredients of a recipe.`,
		Args: exactArgs(1),
	}
	format := formatFlag(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := parseFormat(*format)
		if err != nil {
			return err
		}
		a, ctx, err := e.open(cmd)
		if err != nil {
			return err
		}
		def, err := reporthcl.LoadFile(ctx, args[0])
		if err != nil {
			return usageError(err)
		}
		res, err := a.Evaluator().Run(ctx, def)
		if err != nil {
			return err
		}
		return render.Report(e.stdout, res, f, e.renderOptions())
	}
	return cmd
}

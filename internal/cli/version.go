package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newVersionCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  exactArgs(0),
		Run: func(_ *cobra.Command, _ []string) {
			opts := e.renderOptions()
			title := color.New(color.FgCyan, color.Bold)
			if !opts.Color {
				title.DisableColor()
			}
			for _, row := range [][2]string{
				{"cook version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", runtime.Version()},
			} {
				title.Fprint(e.stdout, row[0])
				fmt.Fprintln(e.stdout, row[1])
			}
		},
	}
}

package cli

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vk/cookcli/internal/app"
	"github.com/vk/cookcli/internal/config"
	"github.com/vk/cookcli/internal/render"
)

// env is the state shared by the commands of one invocation.
type env struct {
	viper   *viper.Viper
	cfgFile string
	stdout  io.Writer
	stderr  io.Writer
}

// NewRootCommand creates the root command. Output goes to stdout, logs and
// diagnostics to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	e := &env{viper: config.NewViper(), stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "cook",
		Short: "Find, scale and report on Cooklang recipes",
		Long: `cook manages a directory tree of Cooklang recipe files.

It resolves recipes by name, alias, path fragment or fuzzy match, scales
them, builds shopping lists and evaluates report definitions written in HCL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&e.cfgFile, "config", "", "config file (default is <root>/config/cook.yaml, then $HOME/.cook.yaml)")
	flags.String("root", ".", "Recipe directory.")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	e.bind(flags, config.KeyRoot, "root")
	e.bind(flags, config.KeyLogLevel, "log-level")
	e.bind(flags, config.KeyLogFormat, "log-format")

	rootCmd.AddCommand(newRecipeCommand(e))
	rootCmd.AddCommand(newListCommand(e))
	rootCmd.AddCommand(newSearchCommand(e))
	rootCmd.AddCommand(newShoppingListCommand(e))
	rootCmd.AddCommand(newReportCommand(e))
	rootCmd.AddCommand(newServerCommand(e))
	rootCmd.AddCommand(newVersionCommand(e))

	return rootCmd
}

func (e *env) bind(flags *pflag.FlagSet, key, name string) {
	if err := e.viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

// open reads the configuration and builds the application. The returned
// context carries the application logger.
func (e *env) open(cmd *cobra.Command) (*app.App, context.Context, error) {
	if _, err := config.ReadFile(e.viper, e.cfgFile); err != nil {
		return nil, nil, usageError(err)
	}
	cfg, err := config.Load(e.viper)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(e.stderr, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, a.Context(cmd.Context()), nil
}

func (e *env) renderOptions() render.Options {
	f, ok := e.stdout.(*os.File)
	return render.Options{Color: ok && f == os.Stdout && !color.NoColor}
}

func formatFlag(cmd *cobra.Command) *string {
	return cmd.Flags().String("format", "text", "Output format. Options: 'text', 'json' or 'markdown'.")
}

func parseFormat(s string) (render.Format, error) {
	f, err := render.ParseFormat(s)
	if err != nil {
		return "", usageError(err)
	}
	return f, nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// Package commands implements the CLI commands for nole.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/nole/internal/app"
	"go.trai.ch/nole/internal/build"
	"go.trai.ch/nole/internal/core/domain"
)

// CLI represents the command line interface for nole.
type CLI struct {
	app        Application
	rootCmd    *cobra.Command
	configFile string
}

// Application represents the application logic interface.
type Application interface {
	Configure(configFile string, flags *pflag.FlagSet) error
	Serve(ctx context.Context) error
	Start(ctx context.Context, args []string) error
	Compile(ctx context.Context, w io.Writer, path string, opts app.CompileOptions) error
	Fonts(ctx context.Context, w io.Writer, format string) error
	Status(ctx context.Context, w io.Writer) error
	Stop(ctx context.Context) error
}

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "nole.skip-config"

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "nole",
		Short:         "An incremental document compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "Path to the config file (default ./nole.yaml)")
	flags.String("listen", domain.DefaultSocketPath(), "Unix socket path or TCP address of the compile server")
	flags.Duration("idle-timeout", domain.DefaultIdleTimeout, "Stop the compile server after this long without requests (0 disables)")
	flags.StringSlice("font-dir", nil, "Additional directory to search for fonts (repeatable)")
	flags.Bool("system-fonts", true, "Search the system font directories")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("strict", false, "Crash on internal faults instead of recovering")
	flags.Bool("watch", false, "Invalidate cached files when they change on disk")
	flags.Bool("metrics", true, "Expose Prometheus metrics on the compile server")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if _, ok := cmd.Annotations[skipConfig]; ok {
			return nil
		}
		return c.app.Configure(c.configFile, cmd.Root().PersistentFlags())
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newFontsCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newStopCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the compile server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if detach {
				return c.app.Start(cmd.Context(), serveArgs(cmd.Root().PersistentFlags()))
			}
			return c.app.Serve(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "Start the compile server in the background and return")

	return cmd
}

// serveArgs rebuilds the serve command line from the persistent flags the
// user set, so a background server sees the same configuration.
func serveArgs(flags *pflag.FlagSet) []string {
	args := []string{"serve"}
	flags.Visit(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			for _, v := range sv.GetSlice() {
				args = append(args, "--"+f.Name+"="+v)
			}
			return
		}
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the compile server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Status(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (c *CLI) newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the compile server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Stop(cmd.Context())
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/nole/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	var opts app.CompileOptions

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a document to PDF or PNG",
		Long: `Compile a document once and write it to --output.

The output format follows the extension of --output: ".png" renders a single
page, anything else exports the whole document as PDF.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Compile(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output path (default <file>.pdf)")
	cmd.Flags().StringVar(&opts.Workspace, "workspace", "", "Workspace root (default the directory of <file>)")
	cmd.Flags().StringVar(&opts.Format, "format", app.FormatText, "Report format: text, json or yaml")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "Page index rendered to a .png output")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 1, "Pixels per point for a .png output")
	cmd.Flags().StringVar(&opts.DocumentID, "id", "", "Document identifier embedded into the PDF")

	return cmd
}

func (c *CLI) newFontsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List the fonts available to documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Fonts(cmd.Context(), cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", app.FormatText, "Output format: text, json or yaml")

	return cmd
}

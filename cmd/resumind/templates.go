package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/observability"
	"github.com/jonathan/resumind/internal/rendering"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the resume templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	if templatesJSON {
		return writeJSON(cmd.OutOrStdout(), rendering.Templates())
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(rendering.Templates())
	return nil
}

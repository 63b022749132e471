package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve resumind tools over the Model Context Protocol (stdio)",
	Long: `Serve the resumind tools to an MCP client over stdin and stdout:
list_templates, extract_profile, adapt_profile, render_resume and score_resume.

Logs go to stderr so they never mix with the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(_ *cobra.Command, _ []string) error {
	selectors, err := cfg.Selectors()
	if err != nil {
		return err
	}
	logger.Info().Str("version", version).Msg("serving MCP tools on stdio")
	return mcptools.ServeStdio(version, mcptools.Options{Selectors: selectors, Logger: logger})
}

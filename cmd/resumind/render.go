package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/adapter"
	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/intake"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/types"
)

var (
	renderTemplate string
	renderFormat   string
	renderOut      string
	renderProfile  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render a resume with one template and export it",
	Long: `Render a resume input record with one template and export it.

The input is a JSON or YAML document input record, a Markdown resume, or
with --profile an extracted profile JSON that is adapted first. Without --out
the file is written to the output directory as <Name>_Resume.<ext>.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", string(rendering.Minimal), "Template identifier or display name")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Export format (default from config, docx)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file path")
	renderCmd.Flags().BoolVar(&renderProfile, "profile", false, "Treat the input as an extracted profile")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	templateName := renderTemplate
	if !cmd.Flags().Changed("template") && cfg.Template != "" {
		templateName = cfg.Template
	}
	id, err := rendering.ParseTemplateID(templateName)
	if err != nil {
		return err
	}
	format, err := selectedFormat(cmd, renderFormat)
	if err != nil {
		return err
	}

	in, err := loadInput(args[0], renderProfile)
	if err != nil {
		return err
	}
	doc, err := rendering.Render(id, in)
	if err != nil {
		return err
	}

	path := outputPath(renderOut, in, format)
	if err := exportDocument(cmd.Context(), path, doc, format); err != nil {
		return err
	}
	logger.Info().Str("template", string(id)).Str("format", string(format)).Str("path", path).Msg("rendered resume")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// selectedFormat returns the --format flag when given, otherwise the
// configured format.
func selectedFormat(cmd *cobra.Command, flag string) (export.Format, error) {
	name := cfg.Format
	if cmd.Flags().Changed("format") {
		name = flag
	}
	return export.ParseFormat(name)
}

// loadInput reads a document input record from a JSON, YAML or Markdown
// file, or adapts an extracted profile when fromProfile is set.
func loadInput(path string, fromProfile bool) (*types.DocumentInput, error) {
	if fromProfile {
		var profile types.Profile
		if err := readJSONFile(path, &profile); err != nil {
			return nil, err
		}
		return adapter.Adapt(&profile), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return intake.FromMarkdown(data), nil
	default:
		return rendering.DecodeInputFile(path, data)
	}
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/ingestion"
)

var (
	convertFormat string
	convertOut    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Re-export a resume file in another format",
	Long:  "Read the text of a resume file (txt, md, pdf or docx) and write it back out as a plain document in another format, one paragraph per line.",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "Export format (default from config, docx)")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Output file path (default <file>.<ext> in the output directory)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := selectedFormat(cmd, convertFormat)
	if err != nil {
		return err
	}
	text, _, err := ingestion.IngestFromFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	path := convertOut
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		path = filepath.Join(cfg.OutputDir, base+"."+format.Ext())
	}
	if filepath.Clean(path) == filepath.Clean(args[0]) {
		return fmt.Errorf("refusing to overwrite the input file %s", path)
	}

	if err := exportDocument(cmd.Context(), path, export.PlainDocument(text), format); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

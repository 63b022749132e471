package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/pipeline"
)

var (
	renderAllFormat  string
	renderAllOutDir  string
	renderAllProfile bool
)

var renderAllCmd = &cobra.Command{
	Use:   "render-all <input>",
	Short: "Render a resume with every template",
	Long:  "Render a resume input record with all ten templates and write one file per template as <Name>_Resume_<template>.<ext>.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRenderAll,
}

func init() {
	renderAllCmd.Flags().StringVarP(&renderAllFormat, "format", "f", "", "Export format (default from config, docx)")
	renderAllCmd.Flags().StringVarP(&renderAllOutDir, "out-dir", "o", "", "Output directory (default from config)")
	renderAllCmd.Flags().BoolVar(&renderAllProfile, "profile", false, "Treat the input as an extracted profile")

	rootCmd.AddCommand(renderAllCmd)
}

func runRenderAll(cmd *cobra.Command, args []string) error {
	format, err := selectedFormat(cmd, renderAllFormat)
	if err != nil {
		return err
	}
	dir := cfg.OutputDir
	if cmd.Flags().Changed("out-dir") {
		dir = renderAllOutDir
	}

	in, err := loadInput(args[0], renderAllProfile)
	if err != nil {
		return err
	}
	generated, err := pipeline.GenerateAll(cmd.Context(), in, format, dir, exportOptions())
	if err != nil {
		return err
	}
	for _, g := range generated {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", g.Template, g.Path)
	}
	return nil
}

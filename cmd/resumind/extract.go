package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/extraction"
	"github.com/jonathan/resumind/internal/observability"
)

var (
	extractURL   string
	extractOut   string
	extractPosts string
)

var extractCmd = &cobra.Command{
	Use:   "extract <profile.html>",
	Short: "Extract a profile from saved LinkedIn page markup",
	Long: `Extract a profile from a saved LinkedIn profile page and write it as JSON.

Posts are read from --posts when an activity page was saved separately,
otherwise from the profile page itself. Missing sections are left empty.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "Profile URL recorded in the output")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output JSON path (default stdout)")
	extractCmd.Flags().StringVar(&extractPosts, "posts", "", "Saved activity page to read posts from")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	html, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}
	selectors, err := cfg.Selectors()
	if err != nil {
		return err
	}

	ex := extraction.New(extraction.WithSelectors(selectors), extraction.WithLogger(logger))
	profile := ex.Extract(string(html), extractURL)

	postsSource := string(html)
	if extractPosts != "" {
		activity, err := os.ReadFile(extractPosts)
		if err != nil {
			return fmt.Errorf("failed to read activity page: %w", err)
		}
		postsSource = string(activity)
	}
	profile.Posts = ex.ExtractPosts(postsSource)

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintProfile(profile)
	}
	return writeJSONFile(cmd.OutOrStdout(), extractOut, profile)
}

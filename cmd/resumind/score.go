package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/ingestion"
	"github.com/jonathan/resumind/internal/observability"
	"github.com/jonathan/resumind/internal/scoring"
)

var (
	scoreJobFile string
	scoreJobURL  string
	scoreSaveJob string
	scoreJSON    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume-file>",
	Short: "Score a resume against a job description",
	Long: `Score a resume (txt, md, pdf or docx) against a job description by keyword
overlap and list the most important missing keywords.

The job description is read from --job or fetched from a posting URL with
--job-url. --save-job writes the cleaned description and its metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Job description file")
	scoreCmd.Flags().StringVarP(&scoreJobURL, "job-url", "u", "", "Job posting URL")
	scoreCmd.Flags().StringVar(&scoreSaveJob, "save-job", "", "Directory to save the cleaned job description in")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	// Validate mutually exclusive flags
	if scoreJobFile == "" && scoreJobURL == "" {
		return errors.New("either --job or --job-url must be provided")
	}
	if scoreJobFile != "" && scoreJobURL != "" {
		return errors.New("--job and --job-url are mutually exclusive; provide only one")
	}

	resume, _, err := ingestion.IngestFromFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	var jd string
	var meta *ingestion.Metadata
	if scoreJobFile != "" {
		jd, meta, err = ingestion.IngestFromFile(scoreJobFile)
	} else {
		jd, meta, err = ingestion.IngestFromURL(cmd.Context(), scoreJobURL, &ingestion.URLOptions{
			UseBrowser: true,
			Browser:    cfg.BrowserOptions(),
			Logger:     logger,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	if scoreSaveJob != "" {
		if err := ingestion.WriteOutput(scoreSaveJob, jd, meta); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	result := scoring.Score(resume, jd)
	if scoreJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintScore(result)
	return nil
}

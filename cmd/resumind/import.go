package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/observability"
	"github.com/jonathan/resumind/internal/pipeline"
	"github.com/jonathan/resumind/internal/rendering"
)

var (
	importAuth     bool
	importTemplate string
	importFormat   string
	importOutDir   string
	importJSONOut  string
)

// newFetcher is replaced in tests.
var newFetcher = func() pipeline.Fetcher {
	return &pipeline.LiveFetcher{
		PublicOptions:  &fetch.PublicOptions{Browser: cfg.BrowserOptions(), Logger: logger},
		SessionOptions: cfg.SessionOptions(),
	}
}

var importCmd = &cobra.Command{
	Use:   "import [profile-url]",
	Short: "Fetch a LinkedIn profile and build a resume from it",
	Long: `Fetch a LinkedIn profile, extract it, and adapt it to a resume input record.

By default the public profile page is fetched over HTTP with a headless browser
fallback. With --auth a browser signs in with LINKEDIN_EMAIL and
LINKEDIN_PASSWORD and also reads the activity page for posts.

With --template the record is rendered and, when a format is configured,
exported to the output directory. The extracted profile is written to
--json-out (or OUTPUT_JSON_PATH). It is kept when a later render or export
step fails; a run that fails before extraction writes {"error": "..."} there.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importAuth, "auth", false, "Sign in before fetching")
	importCmd.Flags().StringVarP(&importTemplate, "template", "t", "", "Render with this template")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Export format (default from config, docx)")
	importCmd.Flags().StringVarP(&importOutDir, "out-dir", "o", "", "Output directory for the exported resume")
	importCmd.Flags().StringVar(&importJSONOut, "json-out", "", "Profile JSON path (default OUTPUT_JSON_PATH, else stdout)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	profileURL := cfg.ProfileURL
	if len(args) == 1 {
		profileURL = args[0]
	}
	if profileURL == "" {
		return errors.New("a profile URL is required, as an argument or profile_url in the config")
	}

	selectors, err := cfg.Selectors()
	if err != nil {
		return err
	}
	opts := pipeline.ImportOptions{
		ProfileURL:    profileURL,
		Authenticated: cfg.Authenticated,
		Credentials:   cfg.Credentials(),
		Fetcher:       newFetcher(),
		Selectors:     selectors,
		Export:        exportOptions(),
		Logger:        logger,
	}
	if cmd.Flags().Changed("auth") {
		opts.Authenticated = importAuth
	}

	templateName := cfg.Template
	if cmd.Flags().Changed("template") {
		templateName = importTemplate
	}
	if templateName != "" {
		if opts.Template, err = rendering.ParseTemplateID(templateName); err != nil {
			return err
		}
		if opts.Format, err = selectedFormat(cmd, importFormat); err != nil {
			return err
		}
		opts.OutputDir = cfg.OutputDir
		if cmd.Flags().Changed("out-dir") {
			opts.OutputDir = importOutDir
		}
	}

	jsonPath := cfg.OutputJSONPath
	if cmd.Flags().Changed("json-out") {
		jsonPath = importJSONOut
	}

	res, runErr := pipeline.Import(cmd.Context(), opts)
	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintSteps(res.Steps)
		if res.Profile != nil {
			printer.PrintProfile(res.Profile)
		}
	}

	// A profile extracted before a render or export failure is still written;
	// the error record only stands in for a profile that never existed.
	recordErr := runErr
	if res.Profile != nil {
		recordErr = nil
	}
	if jsonPath != "" {
		if err := pipeline.WriteProfileJSON(jsonPath, res.Profile, recordErr); err != nil {
			logger.Warn().Err(err).Str("path", jsonPath).Msg("failed to write profile JSON")
		}
	} else if res.Profile != nil {
		if err := writeJSON(cmd.OutOrStdout(), res.Profile); err != nil {
			return err
		}
	}
	if runErr != nil {
		return fmt.Errorf("import failed: %w", runErr)
	}

	if jsonPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Profile: %s\n", jsonPath)
	}
	if res.OutputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Resume:  %s\n", res.OutputPath)
	}
	return nil
}

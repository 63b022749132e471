// Package main provides the resumind command line: profile extraction,
// resume rendering, job matching, the REST API server and the MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/config"
	"github.com/jonathan/resumind/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	logLevel   string
	verbose    bool

	// cfg is the merged configuration: file, then environment, then defaults.
	// Commands apply their own flags on top.
	cfg    config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:     "resumind",
	Short:   "Build resumes from LinkedIn profiles",
	Long:    "resumind extracts LinkedIn profiles, renders them with ten resume templates, exports DOCX, PDF, Markdown, HTML, text, JSON or LaTeX, and scores resumes against job descriptions.",
	Version: version,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON, YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default from RESUMIND_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed summaries")
}

// loadConfig builds cfg and the logger before any command runs.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg = config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

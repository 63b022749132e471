package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/ingestion"
	"github.com/jonathan/resumind/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start the REST API server for extraction, rendering, scoring and profile import.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on (default from RESUMIND_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	selectors, err := cfg.Selectors()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:        port,
		Credentials: cfg.Credentials(),
		Selectors:   selectors,
		Fetcher:     newFetcher(),
		Export:      exportOptions(),
		Ingest:      &ingestion.URLOptions{UseBrowser: true, Browser: cfg.BrowserOptions(), Logger: logger},
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	return srv.Start()
}

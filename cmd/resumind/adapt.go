package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resumind/internal/adapter"
	"github.com/jonathan/resumind/internal/types"
)

var adaptOut string

var adaptCmd = &cobra.Command{
	Use:   "adapt <profile.json>",
	Short: "Convert an extracted profile into a resume input record",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdapt,
}

func init() {
	adaptCmd.Flags().StringVarP(&adaptOut, "out", "o", "", "Output JSON path (default stdout)")
	rootCmd.AddCommand(adaptCmd)
}

func runAdapt(cmd *cobra.Command, args []string) error {
	var profile types.Profile
	if err := readJSONFile(args[0], &profile); err != nil {
		return err
	}
	return writeJSONFile(cmd.OutOrStdout(), adaptOut, adapter.Adapt(&profile))
}

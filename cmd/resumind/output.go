package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/types"
)

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONFile writes v to path, or to stdout when path is empty or "-".
func writeJSONFile(stdout io.Writer, path string, v any) error {
	if path == "" || path == "-" {
		return writeJSON(stdout, v)
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := mkdirFor(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func mkdirFor(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

// readJSONFile decodes the JSON file at path into v.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// exportDocument writes doc in format to path. The file is only created once
// the export succeeded.
func exportDocument(ctx context.Context, path string, doc *rendering.Document, format export.Format) error {
	var buf bytes.Buffer
	if err := export.WriteWithOptions(ctx, &buf, doc, format, exportOptions()); err != nil {
		return err
	}
	if err := mkdirFor(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func exportOptions() *export.Options {
	return &export.Options{Browser: cfg.BrowserOptions(), Logger: logger}
}

// outputPath returns out when set, otherwise the conventional file name for
// the record inside the configured output directory.
func outputPath(out string, in *types.DocumentInput, format export.Format) string {
	if out != "" {
		return out
	}
	name := ""
	if in != nil {
		name = in.Name
	}
	return filepath.Join(cfg.OutputDir, export.Filename(name, format))
}

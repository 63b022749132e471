package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/types"
)

// errorRecord replaces the profile file when a run failed hard.
type errorRecord struct {
	Error string `json:"error"`
}

// WriteProfileJSON writes the profile to path as indented JSON, or an
// {"error": "..."} record when runErr is non-nil.
func WriteProfileJSON(path string, profile *types.Profile, runErr error) error {
	var v any = profile
	if runErr != nil {
		v = errorRecord{Error: runErr.Error()}
	} else if profile == nil {
		v = types.NewProfile("")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Generated is one file written by GenerateAll.
type Generated struct {
	Template rendering.TemplateID `json:"template"`
	Path     string               `json:"path"`
}

// GenerateAll renders the record with every template and writes each
// document in format into dir as "<Name>_Resume_<template>.<ext>".
// Files are written concurrently; the first failure cancels the rest.
func GenerateAll(ctx context.Context, data *types.DocumentInput, format export.Format, dir string, opts *export.Options) ([]Generated, error) {
	docs, err := rendering.RenderAll(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	name := ""
	if data != nil {
		name = data.Name
	}
	out := make([]Generated, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	// browser-backed formats start one Chrome per document
	if format == export.FormatChromePDF {
		g.SetLimit(2)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, generatedName(name, doc.Template, format))
			if err := writeDocument(gCtx, path, doc, format, opts); err != nil {
				return fmt.Errorf("template %s: %w", doc.Template, err)
			}
			out[i] = Generated{Template: doc.Template, Path: path}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func generatedName(name string, id rendering.TemplateID, format export.Format) string {
	base := export.Filename(name, format)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + "_" + string(id) + ext
}

package mcptools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/jonathan/resumind/internal/adapter"
	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/extraction"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/scoring"
	"github.com/jonathan/resumind/internal/types"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent("Error: " + fmt.Sprintf(format, args...))},
		IsError: true,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return textResult(string(data)), nil
}

// handleListTemplates implements the list_templates tool
func handleListTemplates() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var sb strings.Builder
		sb.WriteString("# Templates\n\n")
		for _, info := range rendering.Templates() {
			fmt.Fprintf(&sb, "- **%s** (`%s`, %s layout): %s\n",
				info.Name, info.ID, info.Layout, strings.Join(info.Sections, ", "))
		}
		return textResult(sb.String()), nil
	}
}

// handleExtractProfile implements the extract_profile tool
func handleExtractProfile(selectors *extraction.Selectors, logger zerolog.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		html, err := request.RequireString("html")
		if err != nil || strings.TrimSpace(html) == "" {
			return errorResult("html parameter is required"), nil
		}
		url := request.GetString("url", "")

		ex := extraction.New(extraction.WithSelectors(selectors), extraction.WithLogger(logger))
		profile := ex.Extract(html, url)
		profile.Posts = ex.ExtractPosts(html)
		if profile.IsEmpty() {
			logger.Warn().Str("url", url).Msg("nothing extracted from markup")
		}
		return jsonResult(profile)
	}
}

// handleAdaptProfile implements the adapt_profile tool
func handleAdaptProfile() server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("profile")
		if err != nil {
			return errorResult("profile parameter is required"), nil
		}
		var profile types.Profile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return errorResult("profile is not valid JSON: %v", err), nil
		}
		return jsonResult(adapter.Adapt(&profile))
	}
}

// handleRenderResume implements the render_resume tool
func handleRenderResume(logger zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("template")
		if err != nil {
			return errorResult("template parameter is required"), nil
		}
		id, err := rendering.ParseTemplateID(name)
		if err != nil {
			return errorResult("%v", err), nil
		}

		format, err := export.ParseFormat(request.GetString("format", string(export.FormatMarkdown)))
		if err != nil {
			return errorResult("%v", err), nil
		}
		if !isTextFormat(format) {
			return errorResult("format %s is binary; use one of %s", format, strings.Join(textFormats, ", ")), nil
		}

		data := strings.TrimSpace(request.GetString("data", ""))
		if data == "" {
			data = "{}"
		}
		in, err := rendering.DecodeInput([]byte(data))
		if err != nil {
			return errorResult("%v", err), nil
		}
		doc, err := rendering.Render(id, in)
		if err != nil {
			logger.Error().Err(err).Str("template", string(id)).Msg("render failed")
			return errorResult("%v", err), nil
		}

		var buf bytes.Buffer
		if err := export.Write(ctx, &buf, doc, format); err != nil {
			return errorResult("%v", err), nil
		}
		return textResult(buf.String()), nil
	}
}

func isTextFormat(f export.Format) bool {
	for _, t := range textFormats {
		if string(f) == t {
			return true
		}
	}
	return false
}

// handleScoreResume implements the score_resume tool
func handleScoreResume() server.ToolHandlerFunc {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resume, err := request.RequireString("resume")
		if err != nil {
			return errorResult("resume parameter is required"), nil
		}
		jd, err := request.RequireString("job_description")
		if err != nil {
			return errorResult("job_description parameter is required"), nil
		}

		res := scoring.Score(resume, jd)
		var sb strings.Builder
		fmt.Fprintf(&sb, "Match: %d%% (%d of %d keywords)\n", res.Percentage, len(res.Matched), res.Total)
		if missing := res.TopMissing(scoring.DefaultMissingShown); len(missing) > 0 {
			fmt.Fprintf(&sb, "Missing: %s\n", strings.Join(missing, ", "))
		}
		return textResult(sb.String()), nil
	}
}

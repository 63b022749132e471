// Package mcptools exposes extraction, rendering and scoring as MCP tools
// served over stdio.
package mcptools

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonathan/resumind/internal/export"
)

// textFormats are the export formats a tool can return as text content.
var textFormats = []string{
	string(export.FormatMarkdown),
	string(export.FormatText),
	string(export.FormatHTML),
	string(export.FormatJSON),
	string(export.FormatLaTeX),
}

// listTemplatesTool returns the list_templates tool definition
func listTemplatesTool() mcp.Tool {
	return mcp.NewTool("list_templates",
		mcp.WithDescription("List the resume templates with their layout and section order"),
	)
}

// extractProfileTool returns the extract_profile tool definition
func extractProfileTool() mcp.Tool {
	return mcp.NewTool("extract_profile",
		mcp.WithDescription("Extract name, headline, location, experience, education, skills and posts from saved LinkedIn profile HTML"),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("Raw page markup of the profile or activity page"),
		),
		mcp.WithString("url",
			mcp.Description("Profile URL the markup came from"),
		),
	)
}

// adaptProfileTool returns the adapt_profile tool definition
func adaptProfileTool() mcp.Tool {
	return mcp.NewTool("adapt_profile",
		mcp.WithDescription("Convert an extracted profile (JSON) into a document input record (JSON)"),
		mcp.WithString("profile",
			mcp.Required(),
			mcp.Description("Profile JSON as returned by extract_profile"),
		),
	)
}

// renderResumeTool returns the render_resume tool definition
func renderResumeTool() mcp.Tool {
	return mcp.NewTool("render_resume",
		mcp.WithDescription("Render a document input record with one of the templates"),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("Template identifier or display name, see list_templates"),
		),
		mcp.WithString("data",
			mcp.Description("Document input record as JSON (default: empty record)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: "+strings.Join(textFormats, ", ")+" (default: markdown)"),
			mcp.Enum(textFormats...),
		),
	)
}

// scoreResumeTool returns the score_resume tool definition
func scoreResumeTool() mcp.Tool {
	return mcp.NewTool("score_resume",
		mcp.WithDescription("Score resume text against a job description by keyword overlap"),
		mcp.WithString("resume",
			mcp.Required(),
			mcp.Description("Plain resume text"),
		),
		mcp.WithString("job_description",
			mcp.Required(),
			mcp.Description("Job description text"),
		),
	)
}

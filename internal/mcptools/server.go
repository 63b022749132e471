package mcptools

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/jonathan/resumind/internal/extraction"
)

// Options configures the MCP server.
type Options struct {
	Selectors *extraction.Selectors
	// Logger must not write to stdout, which carries the protocol.
	Logger zerolog.Logger
}

// NewServer creates an MCP server with every resumind tool registered.
func NewServer(version string, opts Options) *server.MCPServer {
	s := server.NewMCPServer(
		"resumind",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(listTemplatesTool(), handleListTemplates())
	s.AddTool(extractProfileTool(), handleExtractProfile(opts.Selectors, opts.Logger))
	s.AddTool(adaptProfileTool(), handleAdaptProfile())
	s.AddTool(renderResumeTool(), handleRenderResume(opts.Logger))
	s.AddTool(scoreResumeTool(), handleScoreResume())
	return s
}

// ServeStdio serves the tools on stdin and stdout until the input closes.
func ServeStdio(version string, opts Options) error {
	return server.ServeStdio(NewServer(version, opts))
}

// Package mcp exposes domainlint over the Model Context Protocol so coding
// assistants can check an import before writing it.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/domainlint/internal/application"
)

// NewServer creates an MCP server with all domainlint tools and resources
// registered for the project at projectPath.
func NewServer(projectPath string, svc *application.LintService) *server.MCPServer {
	s := server.NewMCPServer(
		"domainlint",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}

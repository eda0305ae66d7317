package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/domainlint/internal/application"
)

const policyURI = "domainlint://policy"

func registerResources(s *server.MCPServer, projectPath string, svc *application.LintService) {
	s.AddResource(
		mcplib.NewResource(
			policyURI,
			"Policy",
			mcplib.WithResourceDescription("The project's domain package policy: root, public packages and modules, declared dependencies"),
			mcplib.WithMIMEType("application/json"),
		),
		handlePolicyResource(projectPath, svc),
	)
}

func handlePolicyResource(projectPath string, svc *application.LintService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := policyJSON(projectPath, svc)
		if err != nil {
			return nil, err
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      policyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func policyJSON(projectPath string, svc *application.LintService) ([]byte, error) {
	policy, err := svc.Policy(projectPath)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(policy.Config(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling policy: %w", err)
	}
	return data, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/domainlint/internal/application"
	"github.com/openkraft/domainlint/internal/domain"
)

func registerTools(s *server.MCPServer, projectPath string, svc *application.LintService) {
	s.AddTool(
		mcplib.NewTool("domainlint_analyze",
			mcplib.WithDescription("Analyze the project and return violation groups with the location of every offending import"),
		),
		handleAnalyze(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("domainlint_check_import",
			mcplib.WithDescription("Check whether one module may import another under the project's policy. Edges touching modules outside every domain package come back with checked=false"),
			mcplib.WithString("importer",
				mcplib.Required(),
				mcplib.Description("Dotted path of the importing module, e.g. app.orders.api"),
			),
			mcplib.WithString("imported",
				mcplib.Required(),
				mcplib.Description("Dotted path of the imported module, e.g. app.users.models"),
			),
		),
		handleCheckImport(projectPath, svc),
	)

	s.AddTool(
		mcplib.NewTool("domainlint_graph",
			mcplib.WithDescription("Return the package dependency matrix, unused declarations and package cycles"),
		),
		handleGraph(projectPath, svc),
	)
}

func handleAnalyze(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		view, err := analyze(projectPath, svc)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
		}
		return jsonResult(view)
	}
}

func analyze(projectPath string, svc *application.LintService) (*application.ReportView, error) {
	report, err := svc.Analyze(projectPath)
	if err != nil {
		return nil, err
	}
	return application.NewReportView(report)
}

// importVerdict is the domainlint_check_import result. Checked is false when
// the edge is outside every domain package and the policy does not apply.
type importVerdict struct {
	Allowed  bool     `json:"allowed"`
	Checked  bool     `json:"checked"`
	Reason   string   `json:"reason,omitempty"`
	Messages []string `json:"messages"`
}

func handleCheckImport(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		importer, err := request.RequireString("importer")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		imported, err := request.RequireString("imported")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		verdict, err := checkImport(projectPath, svc, importer, imported)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(verdict)
	}
}

func checkImport(projectPath string, svc *application.LintService, importer, imported string) (*importVerdict, error) {
	check, err := svc.CheckImport(projectPath, importer, imported)
	if err != nil {
		return nil, err
	}
	verdict := &importVerdict{
		Allowed:  check.Allowed(),
		Checked:  check.Exempt == "",
		Reason:   check.Exempt,
		Messages: []string{},
	}
	for _, k := range check.Kinds {
		v := domain.NewViolation(k, check.Importer, check.Imported, nil)
		verdict.Messages = append(verdict.Messages, v.Message())
	}
	return verdict, nil
}

func handleGraph(projectPath string, svc *application.LintService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		deps, err := svc.PackageDependencies(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("graph failed: %v", err)), nil
		}
		return jsonResult(deps)
	}
}

// jsonResult marshals v as indented JSON into a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/openkraft/domainlint/internal/adapters/inbound/mcp"
)

func newMCPCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the domainlint MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(g))
	return cmd
}

func newMCPServeCmd(g *globalOptions) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the domainlint MCP server (stdio)",
		Long:  "Start the MCP server on stdio so coding assistants can check imports before writing them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath([]string{projectPath})
			if err != nil {
				return err
			}
			s := mcpadapter.NewServer(absPath, newLintService(g, serviceOptions{}))
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project path")
	return cmd
}

// Package mcp exposes the arkab decision core as MCP tools over stdio, so
// agent runtimes can submit evidence and inspect system state directly.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arkab-io/arkab/internal/core"
)

// Server wraps the MCP SDK server around a core.System.
type Server struct {
	mcpServer *mcpsdk.Server
	sys       *core.System
}

// New creates an MCP server with the arkab tools registered.
func New(sys *core.System) *Server {
	s := &Server{sys: sys}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "arkab",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all arkab tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arkab_submit",
		Description: "Submit a batch of security evidence for classification. Returns one decision per evidence item, in input order.",
	}, s.handleSubmit)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arkab_health",
		Description: "Report host resource health: CPU, memory, and disk usage against thresholds, with remediation advice for anything degraded.",
	}, s.handleHealth)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arkab_memory",
		Description: "Report decision memory statistics: entry count, capacity, and the decay-weight distribution.",
	}, s.handleMemory)
}

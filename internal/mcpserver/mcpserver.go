// Package mcpserver exposes the analysis engine over the Model Context
// Protocol so LLM agents can query a codebase without shelling out.
package mcpserver

import (
	"context"

	"github.com/groundkit/ground/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all ground analysis tools.
type Server struct {
	server *mcp.Server
	graphs *session.Store
}

// NewServer creates a new MCP server with all ground tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ground",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		graphs: session.NewStore(),
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "build_symbol_graph",
		Description: describeBuildGraph(),
	}, s.handleBuildSymbolGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_dead_exports",
		Description: describeDeadExports(),
	}, s.handleFindDeadExports)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_reachability",
		Description: describeReachability(),
	}, s.handleAnalyzeReachability)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_clones",
		Description: describeClones(),
	}, s.handleFindClones)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count_usages",
		Description: describeUsages(),
	}, s.handleCountUsages)
}

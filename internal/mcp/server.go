package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmehta/loan-advisor/internal/conversation"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the loan advisor over stdio.
type Server struct {
	knowledge conversation.KnowledgeSearcher
	engine    *conversation.Orchestrator
	topK      int
	threshold float64
	mcp       *server.MCPServer
}

// NewServer creates an MCP server with the given dependencies.
func NewServer(knowledge conversation.KnowledgeSearcher, engine *conversation.Orchestrator, topK int, threshold float64) *Server {
	s := &Server{
		knowledge: knowledge,
		engine:    engine,
		topK:      topK,
		threshold: threshold,
	}

	s.mcp = server.NewMCPServer(
		"loanadvisor",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeTool, s.handleSearchKnowledge)
	s.mcp.AddTool(askAdvisorTool, s.handleAskAdvisor)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

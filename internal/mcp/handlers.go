package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rmehta/loan-advisor/internal/conversation"
	"github.com/rmehta/loan-advisor/internal/knowledge"
)

// handleSearchKnowledge performs semantic search over the FAQ catalog.
func (s *Server) handleSearchKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", s.topK)
	if limit <= 0 {
		limit = s.topK
	}

	matches, err := s.knowledge.Search(ctx, query, limit, s.threshold)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(matches) == 0 {
		return mcp.NewToolResultText("No matching FAQ entries found. Try rephrasing the query."), nil
	}

	return mcp.NewToolResultText(formatMatches(matches)), nil
}

// handleAskAdvisor runs one stateless exchange through the answer pipeline.
func (s *Server) handleAskAdvisor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	result, err := s.engine.ProcessTurn(ctx, conversation.TurnRequest{Message: message})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("processing failed: %v", err)), nil
	}

	return mcp.NewToolResultText(result.Response), nil
}

func formatMatches(matches []knowledge.Match) string {
	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. Q: %s (score %.2f)\n   A: %s", i+1, m.Question, m.Score, m.Answer)
	}
	return b.String()
}

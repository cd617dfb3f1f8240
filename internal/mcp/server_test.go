package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rmehta/loan-advisor/internal/conversation"
	"github.com/rmehta/loan-advisor/internal/knowledge"
	"github.com/rmehta/loan-advisor/internal/llm"
	"github.com/rmehta/loan-advisor/internal/websearch"
)

// mockKnowledge implements conversation.KnowledgeSearcher for testing.
type mockKnowledge struct {
	matches []knowledge.Match
}

func (m *mockKnowledge) Search(_ context.Context, query string, topK int, threshold float64) ([]knowledge.Match, error) {
	if topK < len(m.matches) {
		return m.matches[:topK], nil
	}
	return m.matches, nil
}

// mockLLM answers every completion with a fixed string.
type mockLLM struct {
	answer string
}

func (m *mockLLM) IsGreeting(_ context.Context, _, _ string) (bool, error)    { return false, nil }
func (m *mockLLM) IsLoanRelated(_ context.Context, _, _ string) (bool, error) { return true, nil }
func (m *mockLLM) ConfirmExit(_ context.Context, _, _, _ string) (bool, error) {
	return false, nil
}
func (m *mockLLM) ExtractSlots(_ context.Context, _, _ string) (llm.SlotExtraction, error) {
	return llm.SlotExtraction{}, nil
}
func (m *mockLLM) Complete(_ context.Context, _, _ string) (string, error) {
	return m.answer, nil
}

// mockEmbedder keeps exit similarity at zero.
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		if i == 0 {
			out[i] = []float32{1, 0}
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}
func (m *mockEmbedder) Dimensions() int { return 2 }
func (m *mockEmbedder) Name() string    { return "mock" }

// mockSearch returns no web results.
type mockSearch struct{}

func (m *mockSearch) Search(_ context.Context, _ string) (*websearch.Results, error) {
	return &websearch.Results{}, nil
}

func newTestServer(matches []knowledge.Match) *Server {
	client := &mockLLM{answer: "A helpful answer."}
	kb := &mockKnowledge{matches: matches}
	engine := conversation.NewOrchestrator(
		client, kb, &mockSearch{},
		conversation.NewExitDetector(&mockEmbedder{}, client, 0.75),
		conversation.Config{
			Strategy:            conversation.StrategyHistory,
			DefaultModel:        "gpt-4",
			HighIncomeThreshold: 500000,
			RetrievalThreshold:  0.4,
			BestMatchThreshold:  0.55,
			TopK:                3,
		},
	)
	return NewServer(kb, engine, 3, 0.4)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_knowledge", searchKnowledgeTool, "search_knowledge"},
		{"ask_advisor", askAdvisorTool, "ask_advisor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(nil)
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleSearchKnowledge(t *testing.T) {
	ctx := context.Background()

	t.Run("basic search", func(t *testing.T) {
		srv := newTestServer([]knowledge.Match{
			{Question: "What is a home loan?", Answer: "A loan secured on property.", Score: 0.91},
		})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "home loan"}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "What is a home loan?") {
			t.Errorf("result text = %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := newTestServer(nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		srv := newTestServer(nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := srv.handleSearchKnowledge(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})
}

func TestHandleAskAdvisor(t *testing.T) {
	ctx := context.Background()

	t.Run("answers from pipeline", func(t *testing.T) {
		srv := newTestServer([]knowledge.Match{
			{Question: "Q", Answer: "A", Score: 0.9},
		})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"message": "tell me about home loans"}

		result, err := srv.handleAskAdvisor(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
	})

	t.Run("missing message", func(t *testing.T) {
		srv := newTestServer(nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskAdvisor(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing message")
		}
	})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

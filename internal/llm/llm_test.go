package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Content  string
	Err      error
	ProvName string
}

func NewMockProvider(content string) *MockProvider {
	return &MockProvider{ProvName: "mock", Content: content}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &CompletionResponse{Content: m.Content, Model: req.Model, FinishReason: "stop"}, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func TestClassifyYesNoVariants(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"yes", true},
		{"Yes.", true},
		{"YES!", true},
		{"no", false},
		{"No, this is not a greeting.", false},
		{"maybe", false},
	}

	for _, tc := range cases {
		gw := NewGateway(NewMockProvider(tc.answer))
		got, err := gw.IsGreeting(context.Background(), "gpt-4", "hi")
		if err != nil {
			t.Fatalf("IsGreeting(%q): %v", tc.answer, err)
		}
		if got != tc.want {
			t.Errorf("answer %q: got %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestClassifyPropagatesError(t *testing.T) {
	mock := NewMockProvider("")
	mock.Err = errors.New("boom")
	gw := NewGateway(mock)

	if _, err := gw.IsLoanRelated(context.Background(), "gpt-4", "home loan?"); err == nil {
		t.Error("expected error from failing provider")
	}
}

func TestCompleteUsesRequestedModel(t *testing.T) {
	mock := NewMockProvider("some answer")
	gw := NewGateway(mock)

	if _, err := gw.Complete(context.Background(), "gpt-4o", "question"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
	if mock.Calls[0].Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", mock.Calls[0].Model)
	}
}

func TestExtractSlots(t *testing.T) {
	mock := NewMockProvider(`{"location": "Mumbai", "income": "50000", "timeline": "this month"}`)
	gw := NewGateway(mock)

	got, err := gw.ExtractSlots(context.Background(), "gpt-4", "I live in Mumbai, earn 50000, loan this month")
	if err != nil {
		t.Fatalf("ExtractSlots: %v", err)
	}
	if got.Location != "Mumbai" || got.Income != "50000" || got.Timeline != "this month" {
		t.Errorf("unexpected extraction: %+v", got)
	}
}

func TestParseSlotJSON(t *testing.T) {
	cases := []struct {
		name   string
		answer string
		want   SlotExtraction
		ok     bool
	}{
		{
			"plain object",
			`{"location": "Delhi", "income": "2.5 lakh", "timeline": "next year"}`,
			SlotExtraction{Location: "Delhi", Income: "2.5 lakh", Timeline: "next year"},
			true,
		},
		{
			"code fenced",
			"```json\n{\"location\": \"Pune\", \"income\": null, \"timeline\": null}\n```",
			SlotExtraction{Location: "Pune"},
			true,
		},
		{
			"single quotes",
			`{'location': 'Chennai', 'income': '50k', 'timeline': 'soon'}`,
			SlotExtraction{Location: "Chennai", Income: "50k", Timeline: "soon"},
			true,
		},
		{
			"missing keys default empty",
			`{"location": "Goa"}`,
			SlotExtraction{Location: "Goa"},
			true,
		},
		{
			"bare numeric income",
			`{"location": null, "income": 50000, "timeline": null}`,
			SlotExtraction{Income: "50000"},
			true,
		},
		{
			"chatter around the object",
			"Sure! Here you go:\n{\"location\": \"Jaipur\", \"income\": \"1 lakh\", \"timeline\": \"in 2 months\"}\nHope that helps.",
			SlotExtraction{Location: "Jaipur", Income: "1 lakh", Timeline: "in 2 months"},
			true,
		},
		{"no object at all", "I couldn't find any details.", SlotExtraction{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSlotJSON(tc.answer)
			if tc.ok && err != nil {
				t.Fatalf("ParseSlotJSON: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNewProviderUnknownType(t *testing.T) {
	if _, err := NewProvider("mystery", "", "gpt-4"); err == nil {
		t.Error("expected error for unknown provider type")
	}
}

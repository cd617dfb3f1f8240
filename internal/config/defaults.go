package config

import "strings"

// DefaultConfig returns a Config populated with the stock defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Model:          "gpt-4",
		EmbeddingModel: "text-embedding-3-small",
		KnowledgePath:  "data/loan_faq.csv",
		DataDir:        "data",
		Port:           8080,
		Search: SearchConfig{
			Country:  "in",
			Language: "en",
		},
		Thresholds: Thresholds{
			HighIncome:     500000,
			Retrieval:      0.4,
			BestMatch:      0.55,
			ExitSimilarity: 0.75,
			TopK:           3,
		},
	}
}

// Models lists the chat models the advisor accepts as a per-request hint.
// Requests naming anything else fall back to the configured default.
var Models = map[string]string{
	"GPT-3.5 Turbo": "gpt-3.5-turbo",
	"GPT-4":         "gpt-4",
	"GPT-4o":        "gpt-4o",
}

// ResolveModel maps a display name or raw model identifier to the model to
// use for a single turn. Unknown names resolve to fallback.
func ResolveModel(hint, fallback string) string {
	if hint == "" {
		return fallback
	}
	for display, internal := range Models {
		if strings.EqualFold(display, hint) || internal == hint {
			return internal
		}
	}
	return fallback
}

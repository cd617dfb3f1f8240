package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rmehta/loan-advisor/internal/config"
	"github.com/rmehta/loan-advisor/internal/conversation"
	"github.com/rmehta/loan-advisor/internal/embeddings"
	"github.com/rmehta/loan-advisor/internal/knowledge"
	"github.com/rmehta/loan-advisor/internal/llm"
	"github.com/rmehta/loan-advisor/internal/websearch"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `loanadvisor init` to create a config file", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// Embeddings always go through the OpenAI embeddings API, even when chat
// completions use a compatible endpoint.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for embeddings")
	}
	baseURL := ""
	if cfg.Provider == config.ProviderCompatible {
		baseURL = cfg.BaseURL
	}
	return embeddings.NewOpenAIEmbedder(apiKey, baseURL, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.BaseURL, cfg.Model)
}

// createSearcherFromConfig creates the web search gateway. A missing API key
// is not fatal: the pipeline degrades to FAQ-only answers through a searcher
// that always reports failure.
func createSearcherFromConfig(cfg *config.Config) websearch.Searcher {
	apiKey := os.Getenv("SERPER_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: SERPER_API_KEY not set, answers will not include web results")
		return unavailableSearcher{}
	}
	client, err := websearch.NewSerperClient(apiKey, cfg.Search.Country, cfg.Search.Language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: web search disabled: %v\n", err)
		return unavailableSearcher{}
	}
	return client
}

type unavailableSearcher struct{}

func (unavailableSearcher) Search(context.Context, string) (*websearch.Results, error) {
	return nil, fmt.Errorf("web search is not configured")
}

// loadKnowledge builds the in-memory FAQ store from the configured CSV.
// progress may be nil.
func loadKnowledge(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder, progress func()) (*knowledge.Store, error) {
	store := knowledge.NewStore(embedder)
	if err := knowledge.LoadCSV(ctx, cfg.KnowledgePath, store, progress); err != nil {
		return nil, fmt.Errorf("loading knowledge catalog: %w", err)
	}
	return store, nil
}

// buildOrchestrators wires the two conversation engines from config.
func buildOrchestrators(cfg *config.Config, gateway *llm.Gateway, store *knowledge.Store, searcher websearch.Searcher, embedder embeddings.Embedder) (chat, rag *conversation.Orchestrator) {
	exits := conversation.NewExitDetector(embedder, gateway, cfg.Thresholds.ExitSimilarity)

	base := conversation.Config{
		DefaultModel:        cfg.Model,
		HighIncomeThreshold: cfg.Thresholds.HighIncome,
		RetrievalThreshold:  cfg.Thresholds.Retrieval,
		BestMatchThreshold:  cfg.Thresholds.BestMatch,
		TopK:                cfg.Thresholds.TopK,
	}

	chatCfg := base
	chatCfg.Strategy = conversation.StrategyLatest
	chat = conversation.NewOrchestrator(gateway, store, searcher, exits, chatCfg)

	ragCfg := base
	ragCfg.Strategy = conversation.StrategyHistory
	rag = conversation.NewOrchestrator(gateway, store, searcher, exits, ragCfg)

	return chat, rag
}

package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a new LLM provider based on the given provider type
// and default model. Supported provider types: "openai",
// "openai-compatible" (requires baseURL).
func NewProvider(providerType, baseURL, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, "", model), nil

	case "openai-compatible":
		if baseURL == "" {
			return nil, fmt.Errorf("base_url is required for provider openai-compatible")
		}
		apiKey := os.Getenv("OPENAI_API_KEY")
		return NewOpenAIProvider(apiKey, baseURL, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

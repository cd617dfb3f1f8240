package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LOANADVISOR_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: LOANADVISOR_PORT -> port, etc.
	if err := k.Load(env.Provider("LOANADVISOR_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LOANADVISOR_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI:     true,
	ProviderCompatible: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, openai-compatible", c.Provider)
	}
	if c.Provider == ProviderCompatible && c.BaseURL == "" {
		return fmt.Errorf("base_url is required for provider openai-compatible")
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}

	if c.KnowledgePath == "" {
		return fmt.Errorf("knowledge_path is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535")
	}

	t := c.Thresholds
	if t.HighIncome <= 0 {
		return fmt.Errorf("thresholds.high_income must be positive")
	}
	for name, v := range map[string]float64{
		"thresholds.retrieval":       t.Retrieval,
		"thresholds.best_match":      t.BestMatch,
		"thresholds.exit_similarity": t.ExitSimilarity,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0, 1]", name)
		}
	}
	if t.TopK <= 0 {
		return fmt.Errorf("thresholds.top_k must be positive")
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderOpenAI)
	}
	if cfg.Thresholds.HighIncome != 500000 {
		t.Errorf("HighIncome = %d, want 500000", cfg.Thresholds.HighIncome)
	}
	if cfg.Thresholds.Retrieval != 0.4 {
		t.Errorf("Retrieval = %v, want 0.4", cfg.Thresholds.Retrieval)
	}
	if cfg.Thresholds.BestMatch != 0.55 {
		t.Errorf("BestMatch = %v, want 0.55", cfg.Thresholds.BestMatch)
	}
	if cfg.Thresholds.ExitSimilarity != 0.75 {
		t.Errorf("ExitSimilarity = %v, want 0.75", cfg.Thresholds.ExitSimilarity)
	}
	if cfg.Thresholds.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.Thresholds.TopK)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".loanadvisor.yml")
	content := []byte("port: 9090\nmodel: gpt-4o\nthresholds:\n  retrieval: 0.5\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Model)
	}
	if cfg.Thresholds.Retrieval != 0.5 {
		t.Errorf("Retrieval = %v, want 0.5", cfg.Thresholds.Retrieval)
	}
	// Untouched fields keep their defaults.
	if cfg.Thresholds.ExitSimilarity != 0.75 {
		t.Errorf("ExitSimilarity = %v, want 0.75", cfg.Thresholds.ExitSimilarity)
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("LOANADVISOR_PORT", "3000")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".loanadvisor.yml")

	cfg := DefaultConfig()
	cfg.Port = 4242
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 4242 {
		t.Errorf("Port = %d, want 4242", loaded.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "gemini" }},
		{"compatible without base url", func(c *Config) { c.Provider = ProviderCompatible }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty knowledge path", func(c *Config) { c.KnowledgePath = "" }},
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"negative high income", func(c *Config) { c.Thresholds.HighIncome = -1 }},
		{"threshold above one", func(c *Config) { c.Thresholds.Retrieval = 1.5 }},
		{"zero top k", func(c *Config) { c.Thresholds.TopK = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	if got := ResolveModel("GPT-4o", "gpt-4"); got != "gpt-4o" {
		t.Errorf("ResolveModel(GPT-4o) = %q, want gpt-4o", got)
	}
	if got := ResolveModel("gpt-3.5-turbo", "gpt-4"); got != "gpt-3.5-turbo" {
		t.Errorf("ResolveModel(gpt-3.5-turbo) = %q, want gpt-3.5-turbo", got)
	}
	if got := ResolveModel("", "gpt-4"); got != "gpt-4" {
		t.Errorf("ResolveModel(empty) = %q, want fallback gpt-4", got)
	}
	if got := ResolveModel("claude-9", "gpt-4"); got != "gpt-4" {
		t.Errorf("ResolveModel(unknown) = %q, want fallback gpt-4", got)
	}
}

package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to loanadvisor! Let's configure the service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "openai-compatible"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	if cfg.Provider == ProviderCompatible {
		basePrompt := promptui.Prompt{
			Label: "Base URL of the OpenAI-compatible endpoint",
		}
		baseURL, err := basePrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("base url: %w", err)
		}
		cfg.BaseURL = baseURL
	}

	// 2. Chat model.
	modelPrompt := promptui.Select{
		Label: "Select default chat model",
		Items: []string{"gpt-4", "gpt-4o", "gpt-3.5-turbo"},
	}
	_, model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 3. FAQ catalog.
	knowledgePrompt := promptui.Prompt{
		Label:   "Path to the FAQ catalog CSV",
		Default: cfg.KnowledgePath,
	}
	knowledgePath, err := knowledgePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("knowledge path: %w", err)
	}
	cfg.KnowledgePath = knowledgePath

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port in 1..65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	fmt.Println("Set OPENAI_API_KEY and SERPER_API_KEY in your environment or a .env file.")
	return cfg, nil
}

package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	// ProviderCompatible is any OpenAI-compatible endpoint reached via base_url.
	ProviderCompatible ProviderType = "openai-compatible"
)

// Thresholds collects the tunable constants of the dialogue pipeline.
// Defaults mirror the values the advisor was originally tuned with; none of
// them have a documented derivation, so they live in configuration rather
// than code.
type Thresholds struct {
	// HighIncome is the monthly income (whole rupees) above which the
	// advisor asks whether a loan is needed at all.
	HighIncome int64 `yaml:"high_income" koanf:"high_income"`
	// Retrieval is the minimum similarity for an FAQ entry to count as a match.
	Retrieval float64 `yaml:"retrieval" koanf:"retrieval"`
	// BestMatch is the stricter gate applied to the top match in the
	// history-aggregating flow before web augmentation runs.
	BestMatch float64 `yaml:"best_match" koanf:"best_match"`
	// ExitSimilarity gates the LLM exit-confirmation call.
	ExitSimilarity float64 `yaml:"exit_similarity" koanf:"exit_similarity"`
	// TopK caps the number of FAQ matches returned per search.
	TopK int `yaml:"top_k" koanf:"top_k"`
}

// SearchConfig configures the web search gateway.
type SearchConfig struct {
	Country  string `yaml:"country" koanf:"country"`
	Language string `yaml:"language" koanf:"language"`
}

// Config is the top-level loanadvisor configuration, corresponding to
// .loanadvisor.yml.
type Config struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	BaseURL        string       `yaml:"base_url" koanf:"base_url"`
	EmbeddingModel string       `yaml:"embedding_model" koanf:"embedding_model"`

	// KnowledgePath points at the FAQ catalog CSV (columns: question, answer).
	KnowledgePath string `yaml:"knowledge_path" koanf:"knowledge_path"`
	// DataDir holds the SQLite database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	Port       int          `yaml:"port" koanf:"port"`
	Search     SearchConfig `yaml:"search" koanf:"search"`
	Thresholds Thresholds   `yaml:"thresholds" koanf:"thresholds"`
}

package ai

import (
	"errors"

	"github.com/hrygo/studybuddy/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Enabled bool

	Embedding EmbeddingConfig
	LLM       LLMConfig
}

// EmbeddingConfig represents vector embedding configuration.
// An empty Provider means semantic search is unavailable.
type EmbeddingConfig struct {
	Provider   string // openai, ollama
	Model      string // text-embedding-3-small
	Dimensions int    // 1024
	APIKey     string
	BaseURL    string
}

// LLMConfig represents LLM configuration.
type LLMConfig struct {
	Provider    string // openrouter, openai, deepseek, ollama
	Model       string // gpt-4o-mini
	APIKey      string
	BaseURL     string
	MaxTokens   int     // default: 1500
	Temperature float32 // default: 0.7
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		Enabled: p.IsAIEnabled(),
	}
	if !cfg.Enabled {
		return cfg
	}

	cfg.LLM = LLMConfig{
		Provider:    p.AILLMProvider,
		Model:       p.AILLMModel,
		MaxTokens:   1500,
		Temperature: 0.7,
	}
	switch p.AILLMProvider {
	case "openrouter":
		cfg.LLM.APIKey = p.AIOpenRouterAPIKey
		cfg.LLM.BaseURL = p.AIOpenRouterURL
	case "deepseek":
		cfg.LLM.APIKey = p.AIDeepSeekAPIKey
		cfg.LLM.BaseURL = p.AIDeepSeekBaseURL
	case "openai":
		cfg.LLM.APIKey = p.AIOpenAIAPIKey
		cfg.LLM.BaseURL = p.AIOpenAIBaseURL
	case "ollama":
		cfg.LLM.BaseURL = p.AIOllamaBaseURL
	}

	// Neither OpenRouter nor DeepSeek serve embeddings; borrow OpenAI when a key is present.
	switch {
	case p.AIOpenAIAPIKey != "":
		cfg.Embedding = EmbeddingConfig{
			Provider: "openai",
			APIKey:   p.AIOpenAIAPIKey,
			BaseURL:  p.AIOpenAIBaseURL,
		}
	case p.AILLMProvider == "ollama":
		cfg.Embedding = EmbeddingConfig{
			Provider: "ollama",
			BaseURL:  p.AIOllamaBaseURL,
		}
	}
	if cfg.Embedding.Provider != "" {
		cfg.Embedding.Model = p.AIEmbeddingModel
		cfg.Embedding.Dimensions = 1024
	}

	return cfg
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.LLM.Provider == "" {
		return errors.New("LLM provider is required")
	}
	if c.LLM.Provider != "ollama" && c.LLM.APIKey == "" {
		return errors.New("LLM API key is required")
	}
	if c.LLM.Model == "" {
		return errors.New("LLM model is required")
	}
	if c.Embedding.Provider == "openai" && c.Embedding.APIKey == "" {
		return errors.New("embedding API key is required")
	}
	return nil
}

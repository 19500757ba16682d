package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/internal/profile"
)

func TestNewConfigFromProfile(t *testing.T) {
	tests := []struct {
		name              string
		prof              *profile.Profile
		enabled           bool
		llmKey            string
		llmBaseURL        string
		embeddingProvider string
	}{
		{
			name: "openrouter without embeddings",
			prof: &profile.Profile{
				AIEnabled:          true,
				AILLMProvider:      "openrouter",
				AILLMModel:         "gpt-4o-mini",
				AIOpenRouterAPIKey: "or-key",
				AIOpenRouterURL:    "https://openrouter.ai/api/v1",
			},
			enabled:    true,
			llmKey:     "or-key",
			llmBaseURL: "https://openrouter.ai/api/v1",
		},
		{
			name: "deepseek borrows openai for embeddings",
			prof: &profile.Profile{
				AIEnabled:         true,
				AILLMProvider:     "deepseek",
				AILLMModel:        "deepseek-chat",
				AIDeepSeekAPIKey:  "ds-key",
				AIDeepSeekBaseURL: "https://api.deepseek.com",
				AIOpenAIAPIKey:    "oa-key",
				AIOpenAIBaseURL:   "https://api.openai.com/v1",
				AIEmbeddingModel:  "text-embedding-3-small",
			},
			enabled:           true,
			llmKey:            "ds-key",
			llmBaseURL:        "https://api.deepseek.com",
			embeddingProvider: "openai",
		},
		{
			name: "ollama for both",
			prof: &profile.Profile{
				AIEnabled:        true,
				AILLMProvider:    "ollama",
				AILLMModel:       "llama3",
				AIOllamaBaseURL:  "http://localhost:11434/v1",
				AIEmbeddingModel: "nomic-embed-text",
			},
			enabled:           true,
			llmBaseURL:        "http://localhost:11434/v1",
			embeddingProvider: "ollama",
		},
		{
			name:    "missing key disables",
			prof:    &profile.Profile{AIEnabled: true, AILLMProvider: "openrouter"},
			enabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfigFromProfile(tt.prof)
			assert.Equal(t, tt.enabled, cfg.Enabled)
			if !tt.enabled {
				assert.NoError(t, cfg.Validate())
				return
			}
			assert.Equal(t, tt.llmKey, cfg.LLM.APIKey)
			assert.Equal(t, tt.llmBaseURL, cfg.LLM.BaseURL)
			assert.Equal(t, tt.embeddingProvider, cfg.Embedding.Provider)
			if tt.embeddingProvider != "" {
				assert.Equal(t, 1024, cfg.Embedding.Dimensions)
			}
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{Enabled: true, LLM: LLMConfig{Provider: "openai", Model: "gpt-4o-mini"}}
	assert.Error(t, cfg.Validate())

	cfg.LLM.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.LLM.Model = ""
	assert.Error(t, cfg.Validate())

	cfg = &Config{Enabled: true, LLM: LLMConfig{Provider: "ollama", Model: "llama3"}, Embedding: EmbeddingConfig{Provider: "openai"}}
	assert.Error(t, cfg.Validate())
}

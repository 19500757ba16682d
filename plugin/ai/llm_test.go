package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *LLMConfig
		expectError bool
	}{
		{name: "OpenRouter", cfg: &LLMConfig{Provider: "openrouter", Model: "gpt-4o-mini", APIKey: "k", BaseURL: "https://openrouter.ai/api/v1"}},
		{name: "DeepSeek", cfg: &LLMConfig{Provider: "deepseek", Model: "deepseek-chat", APIKey: "k", BaseURL: "https://api.deepseek.com"}},
		{name: "OpenAI", cfg: &LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"}},
		{name: "Ollama", cfg: &LLMConfig{Provider: "ollama", Model: "llama3", BaseURL: "http://localhost:11434/v1"}},
		{name: "Missing key", cfg: &LLMConfig{Provider: "openai", Model: "gpt-4o-mini"}, expectError: true},
		{name: "Unsupported provider", cfg: &LLMConfig{Provider: "unsupported"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewLLMService(tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

// fakeCompletionServer answers /chat/completions the way OpenAI compatible providers do.
func fakeCompletionServer(t *testing.T, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if captured != nil {
			*captured = body
		}

		if stream, _ := body["stream"].(bool); stream {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, word := range strings.SplitAfter(reply, " ") {
				chunk := map[string]any{
					"id":      "chunk",
					"object":  "chat.completion.chunk",
					"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": word}}},
				}
				data, _ := json.Marshal(chunk)
				fmt.Fprintf(w, "data: %s\n\n", data)
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
}

func TestLLMServiceChat(t *testing.T) {
	var captured map[string]any
	server := fakeCompletionServer(t, "Photosynthesis turns light into sugar.", &captured)
	defer server.Close()

	svc, err := NewLLMService(&LLMConfig{Provider: "openrouter", Model: "gpt-4o-mini", APIKey: "k", BaseURL: server.URL, MaxTokens: 800})
	require.NoError(t, err)

	reply, err := svc.Chat(context.Background(),
		FormatMessages("You are a tutor.", "Explain photosynthesis", []Message{AssistantMessage("Hi!")}),
		WithMaxTokens(1000), WithJSONResponse())
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis turns light into sugar.", reply)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.EqualValues(t, 1000, captured["max_tokens"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 3)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", messages[1].(map[string]any)["role"])
	assert.Equal(t, "user", messages[2].(map[string]any)["role"])
	assert.Equal(t, "json_object", captured["response_format"].(map[string]any)["type"])
}

func TestLLMServiceChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(&LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), []Message{UserMessage("hi")})
	assert.Error(t, err)
}

func TestLLMServiceChatStream(t *testing.T) {
	server := fakeCompletionServer(t, "one two three", nil)
	defer server.Close()

	svc, err := NewLLMService(&LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	contentChan, errChan := svc.ChatStream(context.Background(), []Message{UserMessage("count")})
	var sb strings.Builder
	for chunk := range contentChan {
		sb.WriteString(chunk)
	}
	assert.NoError(t, <-errChan)
	assert.Equal(t, "one two three", sb.String())
}

func TestFormatMessages(t *testing.T) {
	msgs := FormatMessages("", "hello", nil)
	require.Len(t, msgs, 1)
	assert.Equal(t, UserMessage("hello"), msgs[0])
}

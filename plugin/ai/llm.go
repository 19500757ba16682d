package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// ChatOption overrides per-call generation settings.
type ChatOption func(*chatOptions)

type chatOptions struct {
	maxTokens   int
	temperature float32
	jsonMode    bool
}

// WithMaxTokens caps the completion length for one call.
func WithMaxTokens(n int) ChatOption {
	return func(o *chatOptions) { o.maxTokens = n }
}

// WithTemperature sets the sampling temperature for one call.
func WithTemperature(t float32) ChatOption {
	return func(o *chatOptions) { o.temperature = t }
}

// WithJSONResponse asks the provider for a JSON object response where supported.
func WithJSONResponse() ChatOption {
	return func(o *chatOptions) { o.jsonMode = true }
}

// LLMService is the LLM service interface.
type LLMService interface {
	// Chat performs synchronous chat.
	Chat(ctx context.Context, messages []Message, opts ...ChatOption) (string, error)

	// ChatStream performs streaming chat.
	ChatStream(ctx context.Context, messages []Message, opts ...ChatOption) (<-chan string, <-chan error)
}

type llmService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewLLMService creates an LLMService for any OpenAI compatible provider.
func NewLLMService(cfg *LLMConfig) (LLMService, error) {
	var clientConfig openai.ClientConfig

	switch cfg.Provider {
	case "openrouter", "deepseek", "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s API key is required", cfg.Provider)
		}
		clientConfig = openai.DefaultConfig(cfg.APIKey)
	case "ollama":
		// Ollama ignores the token but serves the same API under /v1.
		clientConfig = openai.DefaultConfig("ollama")
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	return &llmService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (s *llmService) request(messages []Message, opts []ChatOption) openai.ChatCompletionRequest {
	o := chatOptions{maxTokens: s.maxTokens, temperature: s.temperature}
	for _, opt := range opts {
		opt(&o)
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    convertMessages(messages),
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	}
	if o.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	return req
}

func (s *llmService) Chat(ctx context.Context, messages []Message, opts ...ChatOption) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, s.request(messages, opts))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *llmService) ChatStream(ctx context.Context, messages []Message, opts ...ChatOption) (<-chan string, <-chan error) {
	contentChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(contentChan)
		defer close(errChan)

		req := s.request(messages, opts)
		req.Stream = true
		stream, err := s.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			errChan <- fmt.Errorf("chat stream failed: %w", err)
			return
		}
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errChan <- err
				return
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case contentChan <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return contentChan, errChan
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case "system":
			role = openai.ChatMessageRoleSystem
		case "assistant":
			role = openai.ChatMessageRoleAssistant
		}
		out[i] = openai.ChatCompletionMessage{Role: role, Content: m.Content}
	}
	return out
}

// Helper for creating system prompts
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// Helper for creating user messages
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Helper for creating assistant messages
func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// FormatMessages builds system prompt, history, then the new user turn.
func FormatMessages(systemPrompt string, userContent string, history []Message) []Message {
	messages := make([]Message, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, SystemPrompt(systemPrompt))
	}
	messages = append(messages, history...)
	messages = append(messages, UserMessage(userContent))
	return messages
}

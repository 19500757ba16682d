// Package tutor turns study requests into LLM prompts and parses the replies into
// explanations, flashcards, quizzes, schedules, chat answers and study plans.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/cache"
)

var (
	// ErrInvalidArgument marks bad caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrGenerationFailed marks an LLM failure or a reply with nothing usable in it.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrUnavailable is returned when no LLM is configured.
	ErrUnavailable = errors.New("AI is not configured")
)

// Max completion tokens per operation.
const (
	explainMaxTokens    = 1000
	flashcardsMaxTokens = 1500
	quizMaxTokens       = 2000
	scheduleMaxTokens   = 2000
	chatMaxTokens       = 1500
	studyPlanMaxTokens  = 2000
)

// Tutor generates study material.
type Tutor struct {
	llm      ai.LLMService
	cache    cache.CacheService
	cacheTTL time.Duration
	now      func() time.Time
	shuffle  func(n int, swap func(i, j int))
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithCache stores generated material in c for ttl.
func WithCache(c cache.CacheService, ttl time.Duration) Option {
	return func(t *Tutor) {
		t.cache = c
		t.cacheTTL = ttl
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tutor) { t.now = now }
}

// WithShuffle overrides how quiz options are shuffled.
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(t *Tutor) { t.shuffle = shuffle }
}

// New creates a Tutor. llm may be nil, in which case every generator returns ErrUnavailable.
func New(llm ai.LLMService, opts ...Option) *Tutor {
	t := &Tutor{
		llm:      llm,
		cacheTTL: 30 * time.Minute,
		now:      time.Now,
		shuffle:  rand.Shuffle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Available reports whether an LLM is configured.
func (t *Tutor) Available() bool {
	return t.llm != nil
}

func (t *Tutor) timestamp() string {
	return t.now().UTC().Format(time.RFC3339)
}

// complete sends one prompt and wraps failures as ErrGenerationFailed.
func (t *Tutor) complete(ctx context.Context, kind string, messages []ai.Message, maxTokens int) (string, error) {
	if t.llm == nil {
		return "", ErrUnavailable
	}
	reply, err := t.llm.Chat(ctx, messages, ai.WithMaxTokens(maxTokens))
	if err != nil {
		slog.Warn("llm call failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: failed to generate %s: %w", ErrGenerationFailed, kind, err)
	}
	return reply, nil
}

// cached returns the value stored under key or generates, stores and returns a new one.
func cached[T any](ctx context.Context, t *Tutor, key string, generate func() (*T, error)) (*T, error) {
	if t.cache != nil {
		if data, ok := t.cache.Get(ctx, key); ok {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				return &v, nil
			}
			slog.Warn("dropping unreadable cache entry", "key", key)
		}
	}

	v, err := generate()
	if err != nil {
		return nil, err
	}

	if t.cache != nil {
		if data, err := json.Marshal(v); err == nil {
			if err := t.cache.Set(ctx, key, data, t.cacheTTL); err != nil {
				slog.Warn("failed to cache generated content", "key", key, "error", err)
			}
		}
	}
	return v, nil
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

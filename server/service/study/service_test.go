package study

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/server/auth"
)

var baseTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestService returns a service over a fake store and a pointer to its clock.
func newTestService(opts ...Option) (*Service, *fakeStore, *time.Time) {
	st := newFakeStore()
	now := baseTime
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return NewService(st, "test-secret", opts...), st, &now
}

func userCtx(userID int32) context.Context {
	return auth.SetUserID(context.Background(), userID)
}

func requireCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, status.Code(err), "unexpected error: %v", err)
}

type fakeLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(_ context.Context, _ []ai.Message, _ ...ai.ChatOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.ChatOption) (<-chan string, <-chan error) {
	contentChan := make(chan string, 1)
	errChan := make(chan error, 1)
	reply, err := f.Chat(ctx, messages, opts...)
	if err != nil {
		errChan <- err
	} else {
		contentChan <- reply
	}
	close(contentChan)
	close(errChan)
	return contentChan, errChan
}

type fakeEmbedding struct {
	texts []string
	err   error
}

func (f *fakeEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.texts = append(f.texts, text)
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func (f *fakeEmbedding) Dimensions() int { return 3 }

func (f *fakeEmbedding) Model() string { return "test-embedding" }

var errBoom = errors.New("boom")

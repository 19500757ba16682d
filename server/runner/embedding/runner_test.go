package embedding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/store"
)

// mockEmbeddingService returns constant vectors.
type mockEmbeddingService struct {
	dimensions     int
	batchCallCount atomic.Int32
	shouldFail     bool
	short          bool
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCallCount.Add(1)
	if m.shouldFail {
		return nil, errors.New("batch embedding error")
	}
	n := len(texts)
	if m.short {
		n--
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, m.dimensions)
		for j := range vectors[i] {
			vectors[i][j] = 0.1
		}
	}
	return vectors, nil
}

func (m *mockEmbeddingService) Dimensions() int { return m.dimensions }

func (*mockEmbeddingService) Model() string { return "text-embedding-3-small" }

// fakeStore hands out pending contents and records upserts.
type fakeStore struct {
	mu       sync.Mutex
	pending  []*store.SavedContent
	find     *store.FindSavedContentsWithoutEmbedding
	upserted []*store.SavedContentEmbedding
	findErr  error
}

func (f *fakeStore) FindSavedContentsWithoutEmbedding(_ context.Context, find *store.FindSavedContentsWithoutEmbedding) ([]*store.SavedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.find = find
	return f.pending, f.findErr
}

func (f *fakeStore) UpsertSavedContentEmbedding(_ context.Context, embedding *store.SavedContentEmbedding) (*store.SavedContentEmbedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, embedding)
	return embedding, nil
}

func createContents(count int) []*store.SavedContent {
	contents := make([]*store.SavedContent, count)
	for i := range contents {
		contents[i] = &store.SavedContent{
			ID:      int32(i + 1),
			Type:    store.ContentTypeExplanation,
			Topic:   "recursion",
			Content: "a function calling itself",
		}
	}
	return contents
}

func TestNewRunner(t *testing.T) {
	svc := &mockEmbeddingService{dimensions: 1536}
	s := &fakeStore{}
	runner := NewRunner(s, svc)

	assert.Equal(t, 10*time.Minute, runner.interval)
	assert.Equal(t, 8, runner.batchSize)
}

func TestRunOnce(t *testing.T) {
	tests := []struct {
		name        string
		batchSize   int
		count       int
		wantBatches int32
	}{
		{"single batch", 8, 5, 1},
		{"exact batches", 4, 8, 2},
		{"partial last batch", 5, 12, 3},
		{"nothing pending", 8, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockEmbeddingService{dimensions: 4}
			s := &fakeStore{pending: createContents(tt.count)}
			runner := NewRunner(s, svc)
			runner.batchSize = tt.batchSize

			runner.RunOnce(context.Background())

			assert.Equal(t, tt.wantBatches, svc.batchCallCount.Load())
			require.Len(t, s.upserted, tt.count)
			require.NotNil(t, s.find)
			assert.Equal(t, "text-embedding-3-small", s.find.Model)
			assert.Equal(t, tt.batchSize*20, s.find.Limit)
			for i, e := range s.upserted {
				assert.Equal(t, int32(i+1), e.ContentID)
				assert.Equal(t, "text-embedding-3-small", e.Model)
				assert.Len(t, e.Embedding, 4)
			}
		})
	}
}

func TestRunOnceFailures(t *testing.T) {
	t.Run("embedding error skips the batch", func(t *testing.T) {
		svc := &mockEmbeddingService{dimensions: 4, shouldFail: true}
		s := &fakeStore{pending: createContents(10)}
		runner := NewRunner(s, svc)

		runner.RunOnce(context.Background())
		assert.Equal(t, int32(2), svc.batchCallCount.Load())
		assert.Empty(t, s.upserted)
	})

	t.Run("vector count mismatch", func(t *testing.T) {
		svc := &mockEmbeddingService{dimensions: 4, short: true}
		runner := NewRunner(&fakeStore{}, svc)

		err := runner.processBatch(context.Background(), createContents(3))
		assert.ErrorContains(t, err, "expected 3 vectors, got 2")
	})

	t.Run("find error", func(t *testing.T) {
		svc := &mockEmbeddingService{dimensions: 4}
		runner := NewRunner(&fakeStore{findErr: errors.New("db down")}, svc)

		runner.RunOnce(context.Background())
		assert.Zero(t, svc.batchCallCount.Load())
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := &mockEmbeddingService{dimensions: 4}
		s := &fakeStore{pending: createContents(3)}
		runner := NewRunner(s, svc)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		runner.RunOnce(ctx)
		assert.Zero(t, svc.batchCallCount.Load())
		assert.ErrorIs(t, runner.processBatch(ctx, createContents(1)), context.Canceled)
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	svc := &mockEmbeddingService{dimensions: 4}
	s := &fakeStore{pending: createContents(1)}
	runner := NewRunner(s, svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return svc.batchCallCount.Load() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestEmbeddingText(t *testing.T) {
	c := &store.SavedContent{Type: store.ContentTypeQuiz, Topic: "loops", Content: "for i := range n"}
	assert.Equal(t, "quiz: loops\n\nfor i := range n", embeddingText(c))

	c.Content = strings.Repeat("x", 2*maxEmbeddingText)
	assert.Len(t, embeddingText(c), maxEmbeddingText)
}

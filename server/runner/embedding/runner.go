package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/timeout"
	"github.com/hrygo/studybuddy/store"
)

// maxEmbeddingText keeps inputs well under the context size of common embedding models.
const maxEmbeddingText = 8000

// Store is the part of the store the runner needs.
type Store interface {
	FindSavedContentsWithoutEmbedding(ctx context.Context, find *store.FindSavedContentsWithoutEmbedding) ([]*store.SavedContent, error)
	UpsertSavedContentEmbedding(ctx context.Context, embedding *store.SavedContentEmbedding) (*store.SavedContentEmbedding, error)
}

// Runner embeds saved contents in the background so they can be searched semantically.
type Runner struct {
	store            Store
	embeddingService ai.EmbeddingService
	interval         time.Duration
	batchSize        int
}

func NewRunner(store Store, embeddingService ai.EmbeddingService) *Runner {
	return &Runner{
		store:            store,
		embeddingService: embeddingService,
		interval:         10 * time.Minute,
		batchSize:        8,
	}
}

// Run processes pending contents on start and then on every tick until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	r.processPending(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.processPending(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce processes pending contents once.
func (r *Runner) RunOnce(ctx context.Context) {
	r.processPending(ctx)
}

func (r *Runner) processPending(ctx context.Context) {
	contents, err := r.store.FindSavedContentsWithoutEmbedding(ctx, &store.FindSavedContentsWithoutEmbedding{
		Model: r.embeddingService.Model(),
		Limit: r.batchSize * 20,
	})
	if err != nil {
		slog.Error("failed to find saved contents without embedding", "error", err)
		return
	}
	if len(contents) == 0 {
		return
	}

	slog.Info("processing saved contents for embedding", "count", len(contents))
	for i := 0; i < len(contents); i += r.batchSize {
		if ctx.Err() != nil {
			slog.Info("embedding processing cancelled", "processed", i, "total", len(contents))
			return
		}

		end := min(i+r.batchSize, len(contents))
		batch := contents[i:end]
		if err := r.processBatch(ctx, batch); err != nil {
			slog.Error("failed to process batch", "error", err)
			continue
		}
		slog.Info("batch processed", "count", len(batch), "progress", fmt.Sprintf("%d/%d", end, len(contents)))
	}
}

func (r *Runner) processBatch(ctx context.Context, contents []*store.SavedContent) error {
	if len(contents) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	texts := make([]string, len(contents))
	for i, c := range contents {
		texts[i] = embeddingText(c)
	}
	embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
	defer cancel()
	vectors, err := r.embeddingService.EmbedBatch(embedCtx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(contents) {
		return fmt.Errorf("expected %d vectors, got %d", len(contents), len(vectors))
	}

	model := r.embeddingService.Model()
	for i, c := range contents {
		if _, err := r.store.UpsertSavedContentEmbedding(ctx, &store.SavedContentEmbedding{
			ContentID: c.ID,
			Embedding: vectors[i],
			Model:     model,
		}); err != nil {
			slog.Error("failed to upsert embedding", "contentID", c.ID, "error", err)
		}
	}
	return nil
}

// embeddingText is what gets embedded for a content: its type, topic and body.
func embeddingText(c *store.SavedContent) string {
	text := c.Type.String() + ": " + c.Topic + "\n\n" + c.Content
	if len(text) > maxEmbeddingText {
		text = text[:maxEmbeddingText]
	}
	return text
}

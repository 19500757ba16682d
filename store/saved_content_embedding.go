package store

import "context"

// SavedContentEmbedding stores the vector representation of a saved content for semantic search.
type SavedContentEmbedding struct {
	ID        int32
	ContentID int32
	Embedding []float32
	Model     string
	CreatedTs int64
	UpdatedTs int64
}

// FindSavedContentsWithoutEmbedding selects contents that have no embedding for Model yet.
type FindSavedContentsWithoutEmbedding struct {
	Model string
	Limit int
}

// VectorSearchOptions configures a similarity search over one user's saved contents.
type VectorSearchOptions struct {
	CreatorID int32
	Vector    []float32
	Model     string
	Limit     int
}

// SavedContentWithScore pairs a content with its cosine similarity to the query.
type SavedContentWithScore struct {
	Content *SavedContent
	Score   float32
}

func (s *Store) UpsertSavedContentEmbedding(ctx context.Context, embedding *SavedContentEmbedding) (*SavedContentEmbedding, error) {
	return s.driver.UpsertSavedContentEmbedding(ctx, embedding)
}

func (s *Store) FindSavedContentsWithoutEmbedding(ctx context.Context, find *FindSavedContentsWithoutEmbedding) ([]*SavedContent, error) {
	return s.driver.FindSavedContentsWithoutEmbedding(ctx, find)
}

func (s *Store) SearchSavedContentsByVector(ctx context.Context, opts *VectorSearchOptions) ([]*SavedContentWithScore, error) {
	return s.driver.SearchSavedContentsByVector(ctx, opts)
}

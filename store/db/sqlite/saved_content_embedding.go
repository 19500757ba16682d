package sqlite

import (
	"context"

	"github.com/hrygo/studybuddy/store"
)

func (*DB) UpsertSavedContentEmbedding(context.Context, *store.SavedContentEmbedding) (*store.SavedContentEmbedding, error) {
	return nil, store.ErrFeatureNotSupported
}

func (*DB) FindSavedContentsWithoutEmbedding(context.Context, *store.FindSavedContentsWithoutEmbedding) ([]*store.SavedContent, error) {
	return nil, store.ErrFeatureNotSupported
}

func (*DB) SearchSavedContentsByVector(context.Context, *store.VectorSearchOptions) ([]*store.SavedContentWithScore, error) {
	return nil, store.ErrFeatureNotSupported
}

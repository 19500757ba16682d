package postgres

import (
	"context"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/hrygo/studybuddy/store"
)

// UpsertSavedContentEmbedding inserts or replaces the embedding of a content for a model.
func (d *DB) UpsertSavedContentEmbedding(ctx context.Context, embedding *store.SavedContentEmbedding) (*store.SavedContentEmbedding, error) {
	now := time.Now().Unix()
	if embedding.CreatedTs == 0 {
		embedding.CreatedTs = now
	}
	if embedding.UpdatedTs == 0 {
		embedding.UpdatedTs = now
	}

	stmt := `
		INSERT INTO saved_content_embedding (content_id, embedding, model, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (content_id, model)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		embedding.ContentID,
		pgvector.NewVector(embedding.Embedding),
		embedding.Model,
		embedding.CreatedTs,
		embedding.UpdatedTs,
	).Scan(&embedding.ID, &embedding.CreatedTs, &embedding.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert saved content embedding")
	}
	return embedding, nil
}

// FindSavedContentsWithoutEmbedding returns the oldest contents lacking an embedding for the model.
func (d *DB) FindSavedContentsWithoutEmbedding(ctx context.Context, find *store.FindSavedContentsWithoutEmbedding) ([]*store.SavedContent, error) {
	limit := find.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT c.id, c.uid, c.creator_id, c.created_ts, c.updated_ts, c.type, c.topic, c.content, c.is_favorite
		FROM saved_content c
		LEFT JOIN saved_content_embedding e ON c.id = e.content_id AND e.model = ` + placeholder(1) + `
		WHERE e.id IS NULL
		ORDER BY c.created_ts ASC, c.id ASC
		LIMIT ` + placeholder(2)
	rows, err := d.db.QueryContext(ctx, query, find.Model, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find saved contents without embedding")
	}
	defer rows.Close()

	list := []*store.SavedContent{}
	for rows.Next() {
		content, err := scanSavedContent(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan saved content")
		}
		list = append(list, content)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// SearchSavedContentsByVector ranks one user's contents by cosine similarity.
func (d *DB) SearchSavedContentsByVector(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.SavedContentWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	// <=> is cosine distance, so similarity is 1 - distance.
	query := `
		SELECT
			c.id, c.uid, c.creator_id, c.created_ts, c.updated_ts, c.type, c.topic, c.content, c.is_favorite,
			1 - (e.embedding <=> ` + placeholder(1) + `) AS score
		FROM saved_content c
		INNER JOIN saved_content_embedding e ON c.id = e.content_id
		WHERE c.creator_id = ` + placeholder(2) + `
			AND e.model = ` + placeholder(3) + `
		ORDER BY e.embedding <=> ` + placeholder(1) + `
		LIMIT ` + placeholder(4)

	rows, err := d.db.QueryContext(ctx, query, pgvector.NewVector(opts.Vector), opts.CreatorID, opts.Model, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search")
	}
	defer rows.Close()

	results := []*store.SavedContentWithScore{}
	for rows.Next() {
		var content store.SavedContent
		var result store.SavedContentWithScore
		if err := rows.Scan(
			&content.ID,
			&content.UID,
			&content.CreatorID,
			&content.CreatedTs,
			&content.UpdatedTs,
			&content.Type,
			&content.Topic,
			&content.Content,
			&content.IsFavorite,
			&result.Score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		result.Content = &content
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

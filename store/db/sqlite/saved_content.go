package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/studybuddy/store"
)

const savedContentColumns = `id, uid, creator_id, created_ts, updated_ts, type, topic, content, is_favorite`

func (d *DB) CreateSavedContent(ctx context.Context, create *store.SavedContent) (*store.SavedContent, error) {
	fields := []string{"uid", "creator_id", "type", "topic", "content", "is_favorite"}
	args := []any{create.UID, create.CreatorID, create.Type, create.Topic, create.Content, create.IsFavorite}
	if create.CreatedTs != 0 {
		fields, args = append(fields, "created_ts"), append(args, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields, args = append(fields, "updated_ts"), append(args, create.UpdatedTs)
	}

	stmt := `INSERT INTO saved_content (` + strings.Join(fields, ", ") + `) VALUES (` + placeholders(len(args)) + `) RETURNING id, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create saved content: %w", err)
	}
	return create, nil
}

func (d *DB) ListSavedContents(ctx context.Context, find *store.FindSavedContent) ([]*store.SavedContent, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Type; v != nil {
		where, args = append(where, "type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsFavorite; v != nil {
		where, args = append(where, "is_favorite = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(find.IDList) > 0 {
		holders := make([]string, 0, len(find.IDList))
		for _, id := range find.IDList {
			holders, args = append(holders, placeholder(len(args)+1)), append(args, id)
		}
		where = append(where, "id IN ("+strings.Join(holders, ", ")+")")
	}

	query := `SELECT ` + savedContentColumns + ` FROM saved_content WHERE ` + strings.Join(where, " AND ") + ` ` + orderByCreatedTs(find.OrderByCreatedTsDesc)
	query = withLimit(query, find.Limit, find.Offset)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved contents: %w", err)
	}
	defer rows.Close()

	list := make([]*store.SavedContent, 0)
	for rows.Next() {
		content, err := scanSavedContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved content: %w", err)
		}
		list = append(list, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved contents: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateSavedContent(ctx context.Context, update *store.UpdateSavedContent) (*store.SavedContent, error) {
	set, args := []string{}, []any{}
	if v := update.Topic; v != nil {
		set, args = append(set, "topic = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Content; v != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.IsFavorite; v != nil {
		set, args = append(set, "is_favorite = "+placeholder(len(args)+1)), append(args, *v)
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, updatedTs(update.UpdatedTs))

	args = append(args, update.ID)
	query := `UPDATE saved_content SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + savedContentColumns
	content, err := scanSavedContent(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update saved content: %w", err)
	}
	return content, nil
}

func (d *DB) DeleteSavedContent(ctx context.Context, delete *store.DeleteSavedContent) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM saved_content WHERE id = `+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete saved content: %w", err)
	}
	return nil
}

func scanSavedContent(row rowScanner) (*store.SavedContent, error) {
	var content store.SavedContent
	if err := row.Scan(
		&content.ID,
		&content.UID,
		&content.CreatorID,
		&content.CreatedTs,
		&content.UpdatedTs,
		&content.Type,
		&content.Topic,
		&content.Content,
		&content.IsFavorite,
	); err != nil {
		return nil, err
	}
	return &content, nil
}

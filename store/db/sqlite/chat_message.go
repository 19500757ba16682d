package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/studybuddy/store"
)

func (d *DB) CreateChatMessage(ctx context.Context, create *store.ChatMessage) (*store.ChatMessage, error) {
	fields := []string{"uid", "creator_id", "message", "response", "subject", "difficulty"}
	args := []any{create.UID, create.CreatorID, create.Message, create.Response, create.Subject, create.Difficulty}
	if create.CreatedTs != 0 {
		fields, args = append(fields, "created_ts"), append(args, create.CreatedTs)
	}

	stmt := `INSERT INTO chat_message (` + strings.Join(fields, ", ") + `) VALUES (` + placeholders(len(args)) + `) RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}
	return create, nil
}

func (d *DB) ListChatMessages(ctx context.Context, find *store.FindChatMessage) ([]*store.ChatMessage, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Subject; v != nil {
		where, args = append(where, "subject = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, uid, creator_id, created_ts, message, response, subject, difficulty
		FROM chat_message
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderByCreatedTs(find.OrderByCreatedTsDesc)
	query = withLimit(query, find.Limit, nil)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ChatMessage, 0)
	for rows.Next() {
		var message store.ChatMessage
		if err := rows.Scan(
			&message.ID,
			&message.UID,
			&message.CreatorID,
			&message.CreatedTs,
			&message.Message,
			&message.Response,
			&message.Subject,
			&message.Difficulty,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		list = append(list, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteChatMessages(ctx context.Context, delete *store.DeleteChatMessage) (int64, error) {
	where, args := []string{}, []any{}
	if v := delete.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.CreatorID; v != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("refusing to delete chat messages without a filter")
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM chat_message WHERE `+strings.Join(where, " AND "), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chat messages: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted chat messages: %w", err)
	}
	return affected, nil
}

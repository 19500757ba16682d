package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/studybuddy/store"
)

func (d *DB) CreateQuizResult(ctx context.Context, create *store.QuizResult) (*store.QuizResult, error) {
	fields := []string{"uid", "creator_id", "subject", "topic", "total_questions", "correct_answers", "score", "difficulty", "time_spent"}
	args := []any{create.UID, create.CreatorID, create.Subject, create.Topic, create.TotalQuestions, create.CorrectAnswers, create.Score, create.Difficulty, create.TimeSpent}
	if create.CreatedTs != 0 {
		fields, args = append(fields, "created_ts"), append(args, create.CreatedTs)
	}

	stmt := `INSERT INTO quiz_result (` + strings.Join(fields, ", ") + `) VALUES (` + placeholders(len(args)) + `) RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create quiz result: %w", err)
	}
	return create, nil
}

func (d *DB) ListQuizResults(ctx context.Context, find *store.FindQuizResult) ([]*store.QuizResult, error) {
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
	if v := find.Subject; v != nil {
		where, args = append(where, "subject = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, uid, creator_id, created_ts, subject, topic, total_questions, correct_answers, score, difficulty, time_spent
		FROM quiz_result
		WHERE ` + strings.Join(where, " AND ") + ` ` + orderByCreatedTs(find.OrderByCreatedTsDesc)
	query = withLimit(query, find.Limit, find.Offset)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz results: %w", err)
	}
	defer rows.Close()

	list := make([]*store.QuizResult, 0)
	for rows.Next() {
		var result store.QuizResult
		if err := rows.Scan(
			&result.ID,
			&result.UID,
			&result.CreatorID,
			&result.CreatedTs,
			&result.Subject,
			&result.Topic,
			&result.TotalQuestions,
			&result.CorrectAnswers,
			&result.Score,
			&result.Difficulty,
			&result.TimeSpent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		list = append(list, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz results: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteQuizResult(ctx context.Context, delete *store.DeleteQuizResult) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM quiz_result WHERE id = `+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete quiz result: %w", err)
	}
	return nil
}

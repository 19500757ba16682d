package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/studybuddy/store"
)

const userProgressColumns = `id, user_id, subject, total_study_time, quizzes_taken, average_score, streak, last_study_ts, updated_ts`

func (d *DB) UpsertUserProgress(ctx context.Context, upsert *store.UserProgress) (*store.UserProgress, error) {
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}
	stmt := `INSERT INTO user_progress (user_id, subject, total_study_time, quizzes_taken, average_score, streak, last_study_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		ON CONFLICT (user_id, subject) DO UPDATE SET
			total_study_time = EXCLUDED.total_study_time,
			quizzes_taken = EXCLUDED.quizzes_taken,
			average_score = EXCLUDED.average_score,
			streak = EXCLUDED.streak,
			last_study_ts = EXCLUDED.last_study_ts,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.Subject,
		upsert.TotalStudyTime,
		upsert.QuizzesTaken,
		upsert.AverageScore,
		upsert.Streak,
		upsert.LastStudyTs,
		upsert.UpdatedTs,
	).Scan(&upsert.ID); err != nil {
		return nil, fmt.Errorf("failed to upsert user progress: %w", err)
	}
	return upsert, nil
}

// IncrementUserProgress folds one study event into the record in a single statement,
// so concurrent events never overwrite each other. Streak days are UTC days since epoch.
func (d *DB) IncrementUserProgress(ctx context.Context, increment *store.UserProgressIncrement) (*store.UserProgress, error) {
	var quizzes int32
	var score float64
	if increment.QuizScore != nil {
		quizzes, score = 1, *increment.QuizScore
	}
	stmt := `INSERT INTO user_progress (user_id, subject, total_study_time, quizzes_taken, average_score, streak, last_study_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		ON CONFLICT (user_id, subject) DO UPDATE SET
			total_study_time = user_progress.total_study_time + EXCLUDED.total_study_time,
			quizzes_taken = user_progress.quizzes_taken + EXCLUDED.quizzes_taken,
			average_score = CASE
				WHEN EXCLUDED.quizzes_taken = 0 THEN user_progress.average_score
				ELSE (user_progress.average_score * user_progress.quizzes_taken + EXCLUDED.average_score) / (user_progress.quizzes_taken + 1)
			END,
			streak = CASE
				WHEN user_progress.last_study_ts = 0 THEN 1
				WHEN EXCLUDED.last_study_ts / 86400 <= user_progress.last_study_ts / 86400 THEN MAX(user_progress.streak, 1)
				WHEN EXCLUDED.last_study_ts / 86400 = user_progress.last_study_ts / 86400 + 1 THEN user_progress.streak + 1
				ELSE 1
			END,
			last_study_ts = MAX(user_progress.last_study_ts, EXCLUDED.last_study_ts),
			updated_ts = EXCLUDED.updated_ts
		RETURNING ` + userProgressColumns
	progress, err := scanUserProgress(d.db.QueryRowContext(ctx, stmt,
		increment.UserID,
		increment.Subject,
		increment.StudyMinutes,
		quizzes,
		score,
		1,
		increment.StudyTs,
		increment.StudyTs,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to increment user progress: %w", err)
	}
	return progress, nil
}

func (d *DB) ListUserProgress(ctx context.Context, find *store.FindUserProgress) ([]*store.UserProgress, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Subject; v != nil {
		where, args = append(where, "subject = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT ` + userProgressColumns + `
		FROM user_progress
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY last_study_ts DESC, id DESC`
	query = withLimit(query, find.Limit, nil)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user progress: %w", err)
	}
	defer rows.Close()

	list := make([]*store.UserProgress, 0)
	for rows.Next() {
		progress, err := scanUserProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user progress: %w", err)
		}
		list = append(list, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user progress: %w", err)
	}
	return list, nil
}

func scanUserProgress(row rowScanner) (*store.UserProgress, error) {
	var progress store.UserProgress
	if err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.Subject,
		&progress.TotalStudyTime,
		&progress.QuizzesTaken,
		&progress.AverageScore,
		&progress.Streak,
		&progress.LastStudyTs,
		&progress.UpdatedTs,
	); err != nil {
		return nil, err
	}
	return &progress, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hrygo/studybuddy/store"
)

const studySessionColumns = `id, uid, creator_id, created_ts, updated_ts, type, subject, topic, duration, notes, status`

func (d *DB) CreateStudySession(ctx context.Context, create *store.StudySession) (*store.StudySession, error) {
	if create.Status == "" {
		create.Status = store.SessionActive
	}
	fields := []string{"uid", "creator_id", "type", "subject", "topic", "duration", "notes", "status"}
	args := []any{create.UID, create.CreatorID, create.Type, create.Subject, create.Topic, create.Duration, create.Notes, create.Status}
	if create.CreatedTs != 0 {
		fields, args = append(fields, "created_ts"), append(args, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields, args = append(fields, "updated_ts"), append(args, create.UpdatedTs)
	}

	stmt := `INSERT INTO study_session (` + strings.Join(fields, ", ") + `) VALUES (` + placeholders(len(args)) + `) RETURNING id, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create study session: %w", err)
	}
	return create, nil
}

func (d *DB) ListStudySessions(ctx context.Context, find *store.FindStudySession) ([]*store.StudySession, error) {
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
	if v := find.Status; v != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT ` + studySessionColumns + ` FROM study_session WHERE ` + strings.Join(where, " AND ") + ` ` + orderByCreatedTs(find.OrderByCreatedTsDesc)
	query = withLimit(query, find.Limit, find.Offset)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query study sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.StudySession, 0)
	for rows.Next() {
		session, err := scanStudySession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study session: %w", err)
		}
		list = append(list, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate study sessions: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateStudySession(ctx context.Context, update *store.UpdateStudySession) (*store.StudySession, error) {
	set, args := []string{}, []any{}
	if v := update.Status; v != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Duration; v != nil {
		set, args = append(set, "duration = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Notes; v != nil {
		set, args = append(set, "notes = "+placeholder(len(args)+1)), append(args, *v)
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, updatedTs(update.UpdatedTs))

	args = append(args, update.ID)
	where := "id = " + placeholder(len(args))
	if v := update.UnlessStatus; v != nil {
		args = append(args, *v)
		where += " AND status != " + placeholder(len(args))
	}
	query := `UPDATE study_session SET ` + strings.Join(set, ", ") + ` WHERE ` + where + ` RETURNING ` + studySessionColumns
	session, err := scanStudySession(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if update.UnlessStatus != nil && errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update study session: %w", err)
	}
	return session, nil
}

func (d *DB) DeleteStudySession(ctx context.Context, delete *store.DeleteStudySession) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM study_session WHERE id = `+placeholder(1), delete.ID); err != nil {
		return fmt.Errorf("failed to delete study session: %w", err)
	}
	return nil
}

func scanStudySession(row rowScanner) (*store.StudySession, error) {
	var session store.StudySession
	if err := row.Scan(
		&session.ID,
		&session.UID,
		&session.CreatorID,
		&session.CreatedTs,
		&session.UpdatedTs,
		&session.Type,
		&session.Subject,
		&session.Topic,
		&session.Duration,
		&session.Notes,
		&session.Status,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

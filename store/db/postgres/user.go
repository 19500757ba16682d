package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hrygo/studybuddy/store"
)

const userColumns = `id, uid, created_ts, updated_ts, row_status, username, role, email, nickname, password_hash, avatar_url, is_anonymous, oauth_google_sub`

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	if create.Role == "" {
		create.Role = store.RoleUser
	}
	fields := []string{"uid", "username", "role", "email", "nickname", "password_hash", "avatar_url", "is_anonymous", "oauth_google_sub"}
	args := []any{create.UID, nullString(create.Username), create.Role, create.Email, create.Nickname, create.PasswordHash, create.AvatarURL, create.IsAnonymous, nullString(create.OAuthGoogleSub)}
	if create.CreatedTs != 0 {
		fields, args = append(fields, "created_ts"), append(args, create.CreatedTs)
	}
	if create.UpdatedTs != 0 {
		fields, args = append(fields, "updated_ts"), append(args, create.UpdatedTs)
	}

	stmt := `INSERT INTO "user" (` + strings.Join(fields, ", ") + `) VALUES (` + placeholders(len(args)) + `) RETURNING id, created_ts, updated_ts, row_status`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
		&create.RowStatus,
	); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return create, nil
}

func (d *DB) UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error) {
	set, args := []string{}, []any{}
	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Username; v != nil {
		set, args = append(set, "username = "+placeholder(len(args)+1)), append(args, nullString(*v))
	}
	if v := update.Role; v != nil {
		set, args = append(set, "role = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Email; v != nil {
		set, args = append(set, "email = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Nickname; v != nil {
		set, args = append(set, "nickname = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PasswordHash; v != nil {
		set, args = append(set, "password_hash = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.AvatarURL; v != nil {
		set, args = append(set, "avatar_url = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.IsAnonymous; v != nil {
		set, args = append(set, "is_anonymous = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.OAuthGoogleSub; v != nil {
		set, args = append(set, "oauth_google_sub = "+placeholder(len(args)+1)), append(args, nullString(*v))
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, updatedTs(update.UpdatedTs))

	args = append(args, update.ID)
	query := `UPDATE "user" SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)) + ` RETURNING ` + userColumns
	user, err := scanUser(d.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "row_status = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Username; v != nil {
		where, args = append(where, "username = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Role; v != nil {
		where, args = append(where, "role = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.OAuthGoogleSub; v != nil {
		where, args = append(where, "oauth_google_sub = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT ` + userColumns + ` FROM "user" WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`
	if v := find.Limit; v != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *v)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	list := make([]*store.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteUser(ctx context.Context, delete *store.DeleteUser) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if _, err := result.RowsAffected(); err != nil {
		return err
	}
	return nil
}

func scanUser(row rowScanner) (*store.User, error) {
	var user store.User
	var username, oauthGoogleSub sql.NullString
	if err := row.Scan(
		&user.ID,
		&user.UID,
		&user.CreatedTs,
		&user.UpdatedTs,
		&user.RowStatus,
		&username,
		&user.Role,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.IsAnonymous,
		&oauthGoogleSub,
	); err != nil {
		return nil, err
	}
	user.Username = username.String
	user.OAuthGoogleSub = oauthGoogleSub.String
	return &user, nil
}

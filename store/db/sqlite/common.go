package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// placeholder returns a placeholder for SQLite (uses ?)
func placeholder(int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// nullString stores empty optional unique columns as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func updatedTs(v *int64) int64 {
	if v != nil {
		return *v
	}
	return time.Now().Unix()
}

func orderByCreatedTs(desc bool) string {
	if desc {
		return "ORDER BY created_ts DESC, id DESC"
	}
	return "ORDER BY created_ts ASC, id ASC"
}

func withLimit(query string, limit, offset *int) string {
	if limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *limit)
		if offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *offset)
		}
	}
	return query
}

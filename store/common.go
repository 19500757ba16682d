package store

import "errors"

// RowStatus is the status for a row.
type RowStatus string

const (
	// Normal is the status for a normal row.
	Normal RowStatus = "NORMAL"
	// Archived is the status for an archived row.
	Archived RowStatus = "ARCHIVED"
)

func (r RowStatus) String() string {
	return string(r)
}

// ErrFeatureNotSupported is returned by drivers that lack a capability, e.g. vector search on SQLite.
var ErrFeatureNotSupported = errors.New("feature not supported by the current database driver")

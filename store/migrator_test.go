package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSQL(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "two statements",
			script: "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);",
			want:   []string{"CREATE TABLE a (id INT);", "CREATE TABLE b (id INT);"},
		},
		{
			name:   "line comments are dropped",
			script: "-- header\nCREATE TABLE a (id INT); -- trailing\n",
			want:   []string{"CREATE TABLE a (id INT);"},
		},
		{
			name:   "semicolon inside string",
			script: "INSERT INTO t VALUES ('a;b');",
			want:   []string{"INSERT INTO t VALUES ('a;b');"},
		},
		{
			name:   "dollar quoted body",
			script: "CREATE FUNCTION f() RETURNS INT AS $body$ SELECT 1; $body$ LANGUAGE sql;\nSELECT 2;",
			want:   []string{"CREATE FUNCTION f() RETURNS INT AS $body$ SELECT 1; $body$ LANGUAGE sql;", "SELECT 2;"},
		},
		{
			name:   "block comment",
			script: "/* ; */ SELECT 1;",
			want:   []string{"SELECT 1;"},
		},
		{
			name:   "missing final semicolon",
			script: "SELECT 1",
			want:   []string{"SELECT 1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSQL(tt.script))
		})
	}
}

func TestShouldApplyMigration(t *testing.T) {
	assert.True(t, shouldApplyMigration("1.1.1", "1.0.0", "1.1.1"))
	assert.True(t, shouldApplyMigration("1.0.1", "", "1.1.0"))
	assert.False(t, shouldApplyMigration("1.0.0", "1.0.0", "1.1.0"))
	assert.False(t, shouldApplyMigration("1.2.0", "1.0.0", "1.1.0"))
}

func TestValidateMigrationFileName(t *testing.T) {
	assert.NoError(t, validateMigrationFileName("01__add_index.sql"))
	assert.Error(t, validateMigrationFileName("add_index.sql"))
	assert.Error(t, validateMigrationFileName("x__add_index.sql"))
}

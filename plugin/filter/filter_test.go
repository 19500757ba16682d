package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/store"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{name: "equality", expr: `type == "quiz"`},
		{name: "string function", expr: `topic.contains("Algebra") && is_favorite`},
		{name: "timestamp comparison", expr: `created_ts >= 1700000000`},
		{name: "unknown variable", expr: `owner == "me"`, wantErr: true},
		{name: "not boolean", expr: `topic`, wantErr: true},
		{name: "syntax error", expr: `type ==`, wantErr: true},
		{name: "type mismatch", expr: `created_ts == "yesterday"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expr, prg.String())
		})
	}
}

func TestApply(t *testing.T) {
	contents := []*store.SavedContent{
		{ID: 1, Type: store.ContentTypeQuiz, Topic: "Linear Algebra", IsFavorite: true, CreatedTs: 100},
		{ID: 2, Type: store.ContentTypeQuiz, Topic: "Calculus", CreatedTs: 200},
		{ID: 3, Type: store.ContentTypeFlashcards, Topic: "Linear Algebra", CreatedTs: 300},
	}

	tests := []struct {
		expr string
		want []int32
	}{
		{expr: `type == "quiz"`, want: []int32{1, 2}},
		{expr: `topic.contains("Algebra")`, want: []int32{1, 3}},
		{expr: `is_favorite`, want: []int32{1}},
		{expr: `created_ts > 150 && type != "quiz"`, want: []int32{3}},
		{expr: `false`, want: []int32{}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			require.NoError(t, err)
			matched, err := prg.Apply(contents)
			require.NoError(t, err)
			ids := make([]int32, 0, len(matched))
			for _, c := range matched {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

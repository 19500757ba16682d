package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"Alice_01", true},
		{"", false},
		{"has space", false},
		{"dash-name", false},
		{"émile", false},
		{strings.Repeat("a", 32), true},
		{strings.Repeat("a", 33), false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, ValidateUsername(test.username), test.username)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"t@gmail.com", true},
		{"@example.com", false},
		{"1@gmail", true},
		{"Alice <a@b.com>", false},
		{"", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, ValidateEmail(test.email), test.email)
	}
}

func TestGenUID(t *testing.T) {
	a, b := GenUID(), GenUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 3))
	assert.Equal(t, "ab...", TruncateRunes("abc", 2))
	assert.Equal(t, "数学...", TruncateRunes("数学物理", 2))
}

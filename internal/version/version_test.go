package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVersionGreaterOrEqualThan(t *testing.T) {
	tests := []struct {
		version string
		target  string
		want    bool
	}{
		{"1.0.0", "1.0.0", true},
		{"1.1.0", "1.0.9", true},
		{"1.0.0", "1.0.1", false},
		{"2.0.0", "1.99.99", true},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, IsVersionGreaterOrEqualThan(test.version, test.target), "%s >= %s", test.version, test.target)
	}
}

func TestIsVersionGreaterThan(t *testing.T) {
	assert.False(t, IsVersionGreaterThan("1.0.0", "1.0.0"))
	assert.True(t, IsVersionGreaterThan("1.0.1", "1.0.0"))
	assert.False(t, IsVersionGreaterThan("0.9.0", "1.0.0"))
}

func TestGetCurrentVersion(t *testing.T) {
	assert.Equal(t, Version, GetCurrentVersion("prod"))
	assert.Equal(t, DevVersion, GetCurrentVersion("dev"))
	assert.Equal(t, DevVersion, GetCurrentVersion("demo"))
	assert.Equal(t, "1.0", GetMinorVersion("1.0.7"))
	assert.Equal(t, "", GetMinorVersion("1"))
}

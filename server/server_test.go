package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/internal/profile"
	teststore "github.com/hrygo/studybuddy/store/test"
)

func TestCORSOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, corsOrigins(""))
	assert.Equal(t, []string{"*"}, corsOrigins(" , "))
	assert.Equal(t, []string{"https://a.example", "http://localhost:3000"}, corsOrigins("https://a.example, http://localhost:3000"))
}

func TestNewServer(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	p := &profile.Profile{Mode: "dev", Version: "0.1.0", Data: t.TempDir(), CORSOrigins: "*"}

	s, err := NewServer(ctx, p, ts)
	require.NoError(t, err)
	require.NotEmpty(t, s.Secret)

	// The generated secret survives a restart.
	again, err := NewServer(ctx, p, ts)
	require.NoError(t, err)
	assert.Equal(t, s.Secret, again.Secret)

	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestConfiguredSecret(t *testing.T) {
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	p := &profile.Profile{Mode: "dev", Data: t.TempDir(), Secret: "from-env"}

	s, err := NewServer(ctx, p, ts)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.Secret)
}

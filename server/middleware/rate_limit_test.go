package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/server/auth"
	aierrors "github.com/hrygo/studybuddy/server/internal/errors"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// Keys are independent.
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(0, 0)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(time.Hour)
	rl.Allow("fresh")

	rl.Cleanup()
	assert.Equal(t, 1, rl.Len())
	rl.mu.Lock()
	_, ok := rl.limits["fresh"]
	rl.mu.Unlock()
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "ip:10.0.0.1", Key(c))

	req = req.WithContext(auth.SetUserID(req.Context(), 42))
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "user:42", Key(c))
}

func TestMiddleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(0.001, 1)
	handler := rl.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	newContext := func() echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/explain", nil)
		req.RemoteAddr = "10.0.0.2:999"
		return e.NewContext(req, httptest.NewRecorder())
	}

	require.NoError(t, handler(newContext()))
	err := handler(newContext())
	require.Error(t, err)
	assert.True(t, aierrors.IsCode(err, aierrors.ErrCodeRateLimitExceeded))
}

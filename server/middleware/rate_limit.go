package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/hrygo/studybuddy/server/auth"
	aierrors "github.com/hrygo/studybuddy/server/internal/errors"
)

const (
	// DefaultRate allows one AI request every 3 seconds on average.
	DefaultRate = rate.Limit(1.0 / 3)
	// DefaultBurst lets a client fire a few requests back to back.
	DefaultBurst = 10

	idleTimeout = 30 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides per-key rate limiting.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*limiterEntry
	rate   rate.Limit
	burst  int
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter. Non-positive values fall back to the defaults.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	if r <= 0 {
		r = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{
		limits: make(map[string]*limiterEntry),
		rate:   r,
		burst:  burst,
		now:    time.Now,
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if entry, ok := rl.limits[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limits[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Wait waits for a request to be allowed.
// Returns error if the context is cancelled or rate limit exceeded.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	return rl.getLimiter(key).Wait(ctx)
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}

// Cleanup forgets keys idle for longer than 30 minutes.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idleTimeout)
	for key, entry := range rl.limits {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limits, key)
		}
	}
}

// Key identifies the caller: the user id when authenticated, otherwise the client IP.
func Key(c echo.Context) string {
	if userID := auth.GetUserID(c.Request().Context()); userID != 0 {
		return "user:" + strconv.Itoa(int(userID))
	}
	return "ip:" + c.RealIP()
}

// Middleware rejects callers that exceed their limit with RATE_LIMIT_EXCEEDED.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(Key(c)) {
				return aierrors.RateLimitExceeded("too many requests, please slow down")
			}
			return next(c)
		}
	}
}

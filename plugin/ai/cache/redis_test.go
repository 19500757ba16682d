package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedisService needs Docker; set TEST_REDIS=1 to run it.
func TestRedisService(t *testing.T) {
	if os.Getenv("TEST_REDIS") == "" {
		t.Skip("TEST_REDIS not set")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	cfg := DefaultRedisConfig()
	cfg.Addr = endpoint
	svc, err := NewRedisService(ctx, cfg)
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Set(ctx, "quiz:1", []byte("a"), time.Minute))
	require.NoError(t, svc.Set(ctx, "quiz:2", []byte("b"), time.Minute))
	require.NoError(t, svc.Set(ctx, "explain:1", []byte("c"), time.Minute))

	val, ok := svc.Get(ctx, "quiz:1")
	require.True(t, ok)
	assert.Equal(t, []byte("a"), val)

	require.NoError(t, svc.Invalidate(ctx, "quiz:*"))
	_, ok = svc.Get(ctx, "quiz:2")
	assert.False(t, ok)
	_, ok = svc.Get(ctx, "explain:1")
	assert.True(t, ok)

	require.NoError(t, svc.Invalidate(ctx, "explain:1"))
	_, ok = svc.Get(ctx, "explain:1")
	assert.False(t, ok)
}

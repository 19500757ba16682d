package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestChatHistory(t *testing.T) {
	s, _, now := newTestService()
	ctx := userCtx(1)

	_, err := s.RecordChat(context.Background(), "hi", "hello", "general", "beginner")
	requireCode(t, err, codes.Unauthenticated)
	_, err = s.RecordChat(ctx, " ", "hello", "general", "beginner")
	requireCode(t, err, codes.InvalidArgument)

	for i, msg := range []string{"first", "second", "third"} {
		*now = baseTime.Add(time.Duration(i) * time.Second)
		_, err := s.RecordChat(ctx, msg, "answer to "+msg, "science", "intermediate")
		require.NoError(t, err)
	}
	_, err = s.RecordChat(userCtx(2), "other", "x", "", "")
	require.NoError(t, err)

	history, err := s.ListChatMessages(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Message)
	assert.Equal(t, "third", history[2].Message)

	// A limit keeps the latest turns.
	history, err = s.ListChatMessages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Message)

	deleted, err := s.ClearChatMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	history, err = s.ListChatMessages(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	others, err := s.ListChatMessages(userCtx(2), 0)
	require.NoError(t, err)
	assert.Len(t, others, 1)

	_, err = s.ClearChatMessages(context.Background())
	requireCode(t, err, codes.Unauthenticated)
}

package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/store"
)

func TestQuizResultStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	user, err := createTestingUser(ctx, ts, "quizzer")
	require.NoError(t, err)
	other, err := createTestingUser(ctx, ts, "other")
	require.NoError(t, err)

	created, err := ts.CreateQuizResult(ctx, &store.QuizResult{
		UID:            util.GenUID(),
		CreatorID:      user.ID,
		Subject:        "science",
		Topic:          "Photosynthesis",
		TotalQuestions: 10,
		CorrectAnswers: 8,
		Score:          80,
		Difficulty:     "medium",
		TimeSpent:      300,
	})
	require.NoError(t, err)
	require.NotZero(t, created.CreatedTs)

	_, err = ts.CreateQuizResult(ctx, &store.QuizResult{
		UID:            util.GenUID(),
		CreatorID:      other.ID,
		Subject:        "science",
		TotalQuestions: 4,
		CorrectAnswers: 1,
		Score:          25,
	})
	require.NoError(t, err)

	list, err := ts.ListQuizResults(ctx, &store.FindQuizResult{CreatorID: &user.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.InDelta(t, 80.0, list[0].Score, 0.001)
	require.Equal(t, int32(300), list[0].TimeSpent)

	require.NoError(t, ts.DeleteQuizResult(ctx, &store.DeleteQuizResult{ID: created.ID}))
	got, err := ts.GetQuizResult(ctx, &store.FindQuizResult{ID: &created.ID})
	require.NoError(t, err)
	require.Nil(t, got)
}

package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/studybuddy/store"
)

func TestStreakAcrossDays(t *testing.T) {
	s, _, now := newTestService()
	ctx := userCtx(1)

	for i := range 3 {
		*now = baseTime.Add(time.Duration(i) * 24 * time.Hour)
		_, err := s.SaveQuizResult(ctx, &SaveQuizResultRequest{Subject: "math", TotalQuestions: 1, CorrectAnswers: 1})
		require.NoError(t, err)
	}
	progress, err := s.GetSubjectProgress(ctx, "math")
	require.NoError(t, err)
	assert.Equal(t, int32(3), progress.Streak)

	*now = now.Add(72 * time.Hour)
	_, err = s.SaveQuizResult(ctx, &SaveQuizResultRequest{Subject: "math", TotalQuestions: 1, CorrectAnswers: 1})
	require.NoError(t, err)
	progress, err = s.GetSubjectProgress(ctx, "math")
	require.NoError(t, err)
	assert.Equal(t, int32(1), progress.Streak)
}

func TestGetOverallProgress(t *testing.T) {
	s, st, now := newTestService()
	ctx := userCtx(1)

	overall, err := s.GetOverallProgress(context.Background())
	require.NoError(t, err)
	assert.Nil(t, overall)

	overall, err = s.GetOverallProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(0), overall.AverageScore)
	assert.Empty(t, overall.Subjects)

	st.progress = []*store.UserProgress{
		{ID: 1, UserID: 1, Subject: "math", TotalStudyTime: 30, QuizzesTaken: 2, AverageScore: 80, Streak: 4, LastStudyTs: baseTime.Add(-2 * time.Hour).Unix()},
		{ID: 2, UserID: 1, Subject: "history", TotalStudyTime: 15, QuizzesTaken: 1, AverageScore: 65, Streak: 9, LastStudyTs: baseTime.Add(-72 * time.Hour).Unix()},
		{ID: 3, UserID: 2, Subject: "math", TotalStudyTime: 500, QuizzesTaken: 9, AverageScore: 10, Streak: 1, LastStudyTs: baseTime.Unix()},
	}

	overall, err = s.GetOverallProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(45), overall.TotalStudyTime)
	assert.Equal(t, int32(3), overall.TotalQuizzes)
	assert.Equal(t, int32(73), overall.AverageScore) // (80 + 65) / 2 = 72.5
	assert.Equal(t, int32(4), overall.CurrentStreak)
	require.Len(t, overall.Subjects, 2)
	assert.Equal(t, "math", overall.Subjects[0].Subject)

	// The streak stays current through the next UTC day and lapses after it.
	for _, tt := range []struct {
		after time.Duration
		want  int32
	}{
		{21 * time.Hour, 4},
		{30 * time.Hour, 4},
		{38 * time.Hour, 4},
		{40 * time.Hour, 0},
	} {
		*now = baseTime.Add(tt.after)
		overall, err = s.GetOverallProgress(ctx)
		require.NoError(t, err)
		assert.Equal(t, tt.want, overall.CurrentStreak, "after %s", tt.after)
	}
}

func TestCurrentStreakAfterYesterdaysStudy(t *testing.T) {
	s, _, now := newTestService()
	ctx := userCtx(1)

	_, err := s.SaveQuizResult(ctx, &SaveQuizResultRequest{Subject: "math", TotalQuestions: 4, CorrectAnswers: 3})
	require.NoError(t, err)

	*now = baseTime.Add(30 * time.Hour)
	overall, err := s.GetOverallProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), overall.CurrentStreak)

	_, err = s.SaveQuizResult(ctx, &SaveQuizResultRequest{Subject: "math", TotalQuestions: 4, CorrectAnswers: 4})
	require.NoError(t, err)
	overall, err = s.GetOverallProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), overall.CurrentStreak)
}

func TestGetSubjectProgressAbsent(t *testing.T) {
	s, _, _ := newTestService()

	progress, err := s.GetSubjectProgress(userCtx(1), "literature")
	require.NoError(t, err)
	assert.Equal(t, &store.UserProgress{UserID: 1, Subject: "literature"}, progress)

	progress, err = s.GetSubjectProgress(context.Background(), "literature")
	require.NoError(t, err)
	assert.Nil(t, progress)
}

func TestGetRecentActivity(t *testing.T) {
	s, _, now := newTestService()
	ctx := userCtx(1)

	for i := range 12 {
		*now = baseTime.Add(time.Duration(2*i) * time.Minute)
		_, err := s.CreateStudySession(ctx, &CreateStudySessionRequest{Subject: "math", Topic: "session"})
		require.NoError(t, err)
		*now = baseTime.Add(time.Duration(2*i+1) * time.Minute)
		_, err = s.SaveQuizResult(ctx, &SaveQuizResultRequest{Subject: "math", Topic: "quiz", TotalQuestions: 2, CorrectAnswers: 1})
		require.NoError(t, err)
	}

	activities, err := s.GetRecentActivity(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 15)
	assert.Equal(t, ActivityQuiz, activities[0].Type)
	assert.Equal(t, 50.0, activities[0].Score)
	assert.Equal(t, ActivityStudySession, activities[1].Type)
	assert.Equal(t, int32(30), activities[1].Duration)
	for i := 1; i < len(activities); i++ {
		assert.GreaterOrEqual(t, activities[i-1].CreatedTs, activities[i].CreatedTs)
	}

	activities, err = s.GetRecentActivity(context.Background())
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestGetDashboard(t *testing.T) {
	s, _, _ := newTestService()
	ctx := userCtx(1)

	session, err := s.CreateStudySession(ctx, &CreateStudySessionRequest{Subject: "math", Duration: 40})
	require.NoError(t, err)
	completed := store.SessionCompleted
	_, err = s.UpdateStudySession(ctx, session.UID, &UpdateStudySessionRequest{Status: &completed})
	require.NoError(t, err)
	_, err = s.SaveQuizResult(ctx, &SaveQuizResultRequest{Subject: "math", TotalQuestions: 10, CorrectAnswers: 9})
	require.NoError(t, err)

	dashboard, err := s.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(40), dashboard.Progress.TotalStudyTime)
	assert.Equal(t, int32(1), dashboard.Progress.CurrentStreak)
	assert.Len(t, dashboard.RecentActivity, 2)
	assert.Equal(t, &QuizStats{TotalQuizzes: 1, AverageScore: 90}, dashboard.QuizStats)
	assert.Equal(t, &StudySessionStats{TotalSessions: 1, TotalMinutes: 40}, dashboard.SessionStats)

	dashboard, err = s.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Nil(t, dashboard.Progress)
	assert.Empty(t, dashboard.RecentActivity)
}

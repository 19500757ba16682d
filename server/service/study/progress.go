package study

import (
	"context"
	"math"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/store"
)

const (
	overallProgressLimit = 20
	recentActivityFetch  = 10
	recentActivityLimit  = 15
)

// OverallProgress aggregates the caller's per-subject progress records.
type OverallProgress struct {
	TotalStudyTime int32                `json:"totalStudyTime"`
	TotalQuizzes   int32                `json:"totalQuizzes"`
	AverageScore   int32                `json:"averageScore"`
	CurrentStreak  int32                `json:"currentStreak"`
	Subjects       []*store.UserProgress `json:"subjects"`
}

// ActivityType distinguishes entries of the recent activity feed.
type ActivityType string

const (
	ActivityStudySession ActivityType = "session"
	ActivityQuiz         ActivityType = "quiz"
)

// Activity is one entry of the recent activity feed.
type Activity struct {
	Type      ActivityType `json:"type"`
	UID       string       `json:"uid"`
	Subject   string       `json:"subject"`
	Topic     string       `json:"topic"`
	CreatedTs int64        `json:"createdTs"`
	// Duration is set for sessions, in minutes.
	Duration int32 `json:"duration,omitempty"`
	// Score is set for quizzes.
	Score float64 `json:"score,omitempty"`
}

// Dashboard bundles everything the home screen shows.
type Dashboard struct {
	Progress       *OverallProgress   `json:"progress"`
	RecentActivity []*Activity        `json:"recentActivity"`
	QuizStats      *QuizStats         `json:"quizStats"`
	SessionStats   *StudySessionStats `json:"sessionStats"`
}

// progressDelta is one event folded into a progress record.
type progressDelta struct {
	studyMinutes int32
	quizScore    *float64
}

// recordProgress applies delta to the (user, subject) record, creating it on first use.
func (s *Service) recordProgress(ctx context.Context, userID int32, subject string, delta progressDelta) error {
	if _, err := s.store.IncrementUserProgress(ctx, &store.UserProgressIncrement{
		UserID:       userID,
		Subject:      subject,
		StudyMinutes: delta.studyMinutes,
		QuizScore:    delta.quizScore,
		StudyTs:      s.now().Unix(),
	}); err != nil {
		return internalError("update user progress", err)
	}
	return nil
}

// utcDaysSince counts UTC calendar days between ts and now.
func utcDaysSince(ts int64, now time.Time) int {
	return int(utcDay(now).Sub(utcDay(time.Unix(ts, 0))) / (24 * time.Hour))
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetOverallProgress returns nil for anonymous callers.
func (s *Service) GetOverallProgress(ctx context.Context) (*OverallProgress, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return nil, nil
	}
	limit := overallProgressLimit
	records, err := s.store.ListUserProgress(ctx, &store.FindUserProgress{UserID: &userID, Limit: &limit})
	if err != nil {
		return nil, internalError("list user progress", err)
	}

	overall := &OverallProgress{Subjects: records}
	if len(records) == 0 {
		return overall, nil
	}
	var scoreSum float64
	for _, r := range records {
		overall.TotalStudyTime += r.TotalStudyTime
		overall.TotalQuizzes += r.QuizzesTaken
		scoreSum += r.AverageScore
	}
	overall.AverageScore = int32(math.Round(scoreSum / float64(len(records))))

	// Records come ordered by last study time, newest first. A streak stays
	// current while studying today would still extend it.
	latest := records[0]
	if utcDaysSince(latest.LastStudyTs, s.now()) <= 1 {
		overall.CurrentStreak = latest.Streak
	}
	return overall, nil
}

// GetSubjectProgress returns a zero record for subjects never studied, nil for anonymous callers.
func (s *Service) GetSubjectProgress(ctx context.Context, subject string) (*store.UserProgress, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return nil, nil
	}
	progress, err := s.store.GetUserProgress(ctx, &store.FindUserProgress{UserID: &userID, Subject: &subject})
	if err != nil {
		return nil, internalError("get user progress", err)
	}
	if progress == nil {
		progress = &store.UserProgress{UserID: userID, Subject: subject}
	}
	return progress, nil
}

// GetRecentActivity merges the newest sessions and quiz results, newest first.
func (s *Service) GetRecentActivity(ctx context.Context) ([]*Activity, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*Activity{}, nil
	}
	limit := recentActivityFetch
	sessions, err := s.store.ListStudySessions(ctx, &store.FindStudySession{
		CreatorID:            &userID,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list study sessions", err)
	}
	results, err := s.store.ListQuizResults(ctx, &store.FindQuizResult{
		CreatorID:            &userID,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list quiz results", err)
	}

	activities := make([]*Activity, 0, len(sessions)+len(results))
	for _, session := range sessions {
		activities = append(activities, &Activity{
			Type:      ActivityStudySession,
			UID:       session.UID,
			Subject:   session.Subject,
			Topic:     session.Topic,
			CreatedTs: session.CreatedTs,
			Duration:  session.Duration,
		})
	}
	for _, result := range results {
		activities = append(activities, &Activity{
			Type:      ActivityQuiz,
			UID:       result.UID,
			Subject:   result.Subject,
			Topic:     result.Topic,
			CreatedTs: result.CreatedTs,
			Score:     result.Score,
		})
	}
	slices.SortStableFunc(activities, func(a, b *Activity) int {
		switch {
		case a.CreatedTs > b.CreatedTs:
			return -1
		case a.CreatedTs < b.CreatedTs:
			return 1
		}
		return 0
	})
	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities, nil
}

// GetDashboard loads the dashboard sections concurrently.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		progress, err := s.GetOverallProgress(gctx)
		dashboard.Progress = progress
		return err
	})
	g.Go(func() error {
		activity, err := s.GetRecentActivity(gctx)
		dashboard.RecentActivity = activity
		return err
	})
	g.Go(func() error {
		stats, err := s.GetQuizStats(gctx)
		dashboard.QuizStats = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.GetStudySessionStats(gctx)
		dashboard.SessionStats = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

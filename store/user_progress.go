package store

import "context"

// UserProgress is the per-(user, subject) study aggregate.
type UserProgress struct {
	ID      int32
	UserID  int32
	Subject string

	// TotalStudyTime in minutes.
	TotalStudyTime int32
	QuizzesTaken   int32
	AverageScore   float64
	// Streak is the number of consecutive UTC days with study activity.
	Streak      int32
	LastStudyTs int64
	UpdatedTs   int64
}

type FindUserProgress struct {
	UserID  *int32
	Subject *string

	// Results are ordered by last_study_ts descending.
	Limit *int
}

// UserProgressIncrement is one study event to fold into a UserProgress record.
type UserProgressIncrement struct {
	UserID  int32
	Subject string

	StudyMinutes int32
	// QuizScore, when set, counts one more quiz and joins the running average.
	QuizScore *float64
	// StudyTs is when the event happened; it drives the streak.
	StudyTs int64
}

// UpsertUserProgress creates or replaces the aggregate keyed by (UserID, Subject).
func (s *Store) UpsertUserProgress(ctx context.Context, upsert *UserProgress) (*UserProgress, error) {
	return s.driver.UpsertUserProgress(ctx, upsert)
}

// IncrementUserProgress applies increment atomically, creating the record on first use.
func (s *Store) IncrementUserProgress(ctx context.Context, increment *UserProgressIncrement) (*UserProgress, error) {
	return s.driver.IncrementUserProgress(ctx, increment)
}

func (s *Store) ListUserProgress(ctx context.Context, find *FindUserProgress) ([]*UserProgress, error) {
	return s.driver.ListUserProgress(ctx, find)
}

func (s *Store) GetUserProgress(ctx context.Context, find *FindUserProgress) (*UserProgress, error) {
	list, err := s.ListUserProgress(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

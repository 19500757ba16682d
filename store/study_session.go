package store

import "context"

// SessionStatus is the lifecycle state of a study session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionPaused    SessionStatus = "paused"
)

func (s SessionStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known session status.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionActive, SessionCompleted, SessionPaused:
		return true
	}
	return false
}

type StudySession struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Type    string
	Subject string
	Topic   string
	// Duration in minutes.
	Duration int32
	Notes    string
	Status   SessionStatus
}

type FindStudySession struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Subject   *string
	Status    *SessionStatus

	Limit                *int
	Offset               *int
	OrderByCreatedTsDesc bool
}

type UpdateStudySession struct {
	ID int32

	UpdatedTs *int64
	Status    *SessionStatus
	Duration  *int32
	Notes     *string

	// UnlessStatus skips the row when it already has this status.
	// The update then returns nil without an error.
	UnlessStatus *SessionStatus
}

type DeleteStudySession struct {
	ID int32
}

func (s *Store) CreateStudySession(ctx context.Context, create *StudySession) (*StudySession, error) {
	return s.driver.CreateStudySession(ctx, create)
}

func (s *Store) ListStudySessions(ctx context.Context, find *FindStudySession) ([]*StudySession, error) {
	return s.driver.ListStudySessions(ctx, find)
}

func (s *Store) GetStudySession(ctx context.Context, find *FindStudySession) (*StudySession, error) {
	list, err := s.ListStudySessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateStudySession(ctx context.Context, update *UpdateStudySession) (*StudySession, error) {
	return s.driver.UpdateStudySession(ctx, update)
}

func (s *Store) DeleteStudySession(ctx context.Context, delete *DeleteStudySession) error {
	return s.driver.DeleteStudySession(ctx, delete)
}

package study

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/store"
)

const defaultSessionDuration = 30

type CreateStudySessionRequest struct {
	Type    string
	Subject string
	Topic   string
	Notes   string
	// Duration in minutes, 30 when zero.
	Duration int32
}

// UpdateStudySessionRequest carries optional changes; nil fields are left alone.
type UpdateStudySessionRequest struct {
	Status   *store.SessionStatus
	Duration *int32
	Notes    *string
}

// StudySessionStats summarizes the caller's sessions.
type StudySessionStats struct {
	TotalSessions int32 `json:"totalSessions"`
	TotalMinutes  int32 `json:"totalMinutes"`
}

// CreateStudySession starts an active session.
func (s *Service) CreateStudySession(ctx context.Context, req *CreateStudySessionRequest) (*store.StudySession, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Duration < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "duration must not be negative")
	}
	duration := req.Duration
	if duration == 0 {
		duration = defaultSessionDuration
	}
	sessionType := strings.TrimSpace(req.Type)
	if sessionType == "" {
		sessionType = "study"
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = defaultSubject
	}

	now := s.now().Unix()
	session, err := s.store.CreateStudySession(ctx, &store.StudySession{
		UID:       util.GenUID(),
		CreatorID: userID,
		CreatedTs: now,
		UpdatedTs: now,
		Type:      sessionType,
		Subject:   subject,
		Topic:     strings.TrimSpace(req.Topic),
		Duration:  duration,
		Notes:     req.Notes,
		Status:    store.SessionActive,
	})
	if err != nil {
		return nil, internalError("create study session", err)
	}
	return session, nil
}

// UpdateStudySession changes the caller's session. Completing a session adds its
// duration to the subject's study time, once.
func (s *Service) UpdateStudySession(ctx context.Context, uid string, req *UpdateStudySessionRequest) (*store.StudySession, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.store.GetStudySession(ctx, &store.FindStudySession{UID: &uid, CreatorID: &userID})
	if err != nil {
		return nil, internalError("get study session", err)
	}
	if session == nil {
		return nil, status.Errorf(codes.NotFound, "study session not found")
	}

	now := s.now().Unix()
	update := &store.UpdateStudySession{ID: session.ID, UpdatedTs: &now}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, status.Errorf(codes.InvalidArgument, "invalid status %q", *req.Status)
		}
		update.Status = req.Status
	}
	if req.Duration != nil {
		if *req.Duration < 0 {
			return nil, status.Errorf(codes.InvalidArgument, "duration must not be negative")
		}
		update.Duration = req.Duration
	}
	update.Notes = req.Notes

	completing := req.Status != nil && *req.Status == store.SessionCompleted && session.Status != store.SessionCompleted
	if completing {
		completed := store.SessionCompleted
		update.UnlessStatus = &completed
	}
	updated, err := s.store.UpdateStudySession(ctx, update)
	if err != nil {
		return nil, internalError("update study session", err)
	}
	if updated == nil && completing {
		// Another request completed it first and already counted the minutes.
		completing = false
		update.UnlessStatus = nil
		if updated, err = s.store.UpdateStudySession(ctx, update); err != nil {
			return nil, internalError("update study session", err)
		}
	}
	if updated == nil {
		return nil, status.Errorf(codes.NotFound, "study session not found")
	}

	if completing {
		if err := s.recordProgress(ctx, userID, updated.Subject, progressDelta{studyMinutes: updated.Duration}); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// ListStudySessions returns the newest sessions first, 20 by default.
func (s *Service) ListStudySessions(ctx context.Context, limit int) ([]*store.StudySession, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*store.StudySession{}, nil
	}
	limit = normalizeLimit(limit, defaultListLimit)
	list, err := s.store.ListStudySessions(ctx, &store.FindStudySession{
		CreatorID:            &userID,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list study sessions", err)
	}
	return list, nil
}

// GetStudySessionStats counts all sessions and sums their durations regardless of status.
func (s *Service) GetStudySessionStats(ctx context.Context) (*StudySessionStats, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return &StudySessionStats{}, nil
	}
	list, err := s.store.ListStudySessions(ctx, &store.FindStudySession{CreatorID: &userID})
	if err != nil {
		return nil, internalError("list study sessions", err)
	}
	stats := &StudySessionStats{TotalSessions: int32(len(list))}
	for _, session := range list {
		stats.TotalMinutes += session.Duration
	}
	return stats, nil
}

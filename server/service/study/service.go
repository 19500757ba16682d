// Package study implements the StudyBuddy study tracker: quiz results, study sessions,
// saved content, progress aggregation, chat history, study plans and user accounts.
//
// Every operation reads the authenticated user from the context (see auth.GetUserID).
// Reads by an anonymous caller return empty results; writes fail with Unauthenticated.
// Errors are grpc status errors so that transports can map them uniformly.
package study

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/plugin/ai"
	"github.com/hrygo/studybuddy/plugin/ai/tutor"
	"github.com/hrygo/studybuddy/plugin/avatar"
	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	defaultSubject   = "general"
)

// Store is the interface for store operations needed by the study service.
type Store interface {
	CreateUser(ctx context.Context, create *store.User) (*store.User, error)
	UpdateUser(ctx context.Context, update *store.UpdateUser) (*store.User, error)
	ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error)
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)

	CreateQuizResult(ctx context.Context, create *store.QuizResult) (*store.QuizResult, error)
	ListQuizResults(ctx context.Context, find *store.FindQuizResult) ([]*store.QuizResult, error)

	CreateStudySession(ctx context.Context, create *store.StudySession) (*store.StudySession, error)
	ListStudySessions(ctx context.Context, find *store.FindStudySession) ([]*store.StudySession, error)
	GetStudySession(ctx context.Context, find *store.FindStudySession) (*store.StudySession, error)
	UpdateStudySession(ctx context.Context, update *store.UpdateStudySession) (*store.StudySession, error)

	CreateSavedContent(ctx context.Context, create *store.SavedContent) (*store.SavedContent, error)
	ListSavedContents(ctx context.Context, find *store.FindSavedContent) ([]*store.SavedContent, error)
	GetSavedContent(ctx context.Context, find *store.FindSavedContent) (*store.SavedContent, error)
	UpdateSavedContent(ctx context.Context, update *store.UpdateSavedContent) (*store.SavedContent, error)
	DeleteSavedContent(ctx context.Context, delete *store.DeleteSavedContent) error
	SearchSavedContentsByVector(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.SavedContentWithScore, error)
	SupportsVectorSearch() bool

	IncrementUserProgress(ctx context.Context, increment *store.UserProgressIncrement) (*store.UserProgress, error)
	ListUserProgress(ctx context.Context, find *store.FindUserProgress) ([]*store.UserProgress, error)
	GetUserProgress(ctx context.Context, find *store.FindUserProgress) (*store.UserProgress, error)

	CreateChatMessage(ctx context.Context, create *store.ChatMessage) (*store.ChatMessage, error)
	ListChatMessages(ctx context.Context, find *store.FindChatMessage) ([]*store.ChatMessage, error)
	DeleteChatMessages(ctx context.Context, delete *store.DeleteChatMessage) (int64, error)

	CreateStudyPlan(ctx context.Context, create *store.StudyPlan) (*store.StudyPlan, error)
	ListStudyPlans(ctx context.Context, find *store.FindStudyPlan) ([]*store.StudyPlan, error)
	GetStudyPlan(ctx context.Context, find *store.FindStudyPlan) (*store.StudyPlan, error)
	UpdateStudyPlan(ctx context.Context, update *store.UpdateStudyPlan) (*store.StudyPlan, error)
	DeleteStudyPlan(ctx context.Context, delete *store.DeleteStudyPlan) error
}

// Service implements the study tracker operations.
type Service struct {
	store     Store
	secret    []byte
	tutor     *tutor.Tutor
	embedding ai.EmbeddingService
	avatars   *avatar.Processor
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTutor enables study plan generation.
func WithTutor(t *tutor.Tutor) Option {
	return func(s *Service) { s.tutor = t }
}

// WithEmbeddingService enables semantic search over saved contents.
func WithEmbeddingService(e ai.EmbeddingService) Option {
	return func(s *Service) { s.embedding = e }
}

// WithAvatarProcessor overrides the avatar processor.
func WithAvatarProcessor(p *avatar.Processor) Option {
	return func(s *Service) { s.avatars = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. secret signs the access tokens issued at sign in.
func NewService(st Store, secret string, opts ...Option) *Service {
	s := &Service{
		store:   st,
		secret:  []byte(secret),
		avatars: avatar.NewProcessor(3),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requireUser returns the caller's id or an Unauthenticated error.
func requireUser(ctx context.Context) (int32, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return 0, status.Errorf(codes.Unauthenticated, "user not authenticated")
	}
	return userID, nil
}

func internalError(action string, err error) error {
	slog.Error("study operation failed", "action", action, "error", err)
	return status.Errorf(codes.Internal, "failed to %s: %v", action, err)
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxListLimit)
}

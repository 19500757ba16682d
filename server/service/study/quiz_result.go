package study

import (
	"context"
	"math"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/store"
)

// SaveQuizResultRequest is a finished quiz attempt.
type SaveQuizResultRequest struct {
	Subject        string
	Topic          string
	TotalQuestions int32
	CorrectAnswers int32
	Difficulty     string
	// TimeSpent in seconds.
	TimeSpent int32
}

// QuizStats summarizes the caller's quiz history.
type QuizStats struct {
	TotalQuizzes int32 `json:"totalQuizzes"`
	AverageScore int32 `json:"averageScore"`
}

// SaveQuizResult stores an attempt and folds its score into the subject's progress.
func (s *Service) SaveQuizResult(ctx context.Context, req *SaveQuizResultRequest) (*store.QuizResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.TotalQuestions <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "total questions must be positive")
	}
	if req.CorrectAnswers < 0 || req.CorrectAnswers > req.TotalQuestions {
		return nil, status.Errorf(codes.InvalidArgument, "correct answers must be between 0 and %d", req.TotalQuestions)
	}
	if req.TimeSpent < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "time spent must not be negative")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = defaultSubject
	}

	result, err := s.store.CreateQuizResult(ctx, &store.QuizResult{
		UID:            util.GenUID(),
		CreatorID:      userID,
		CreatedTs:      s.now().Unix(),
		Subject:        subject,
		Topic:          strings.TrimSpace(req.Topic),
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		Score:          float64(req.CorrectAnswers) / float64(req.TotalQuestions) * 100,
		Difficulty:     strings.TrimSpace(req.Difficulty),
		TimeSpent:      req.TimeSpent,
	})
	if err != nil {
		return nil, internalError("create quiz result", err)
	}

	if err := s.recordProgress(ctx, userID, subject, progressDelta{quizScore: &result.Score}); err != nil {
		return nil, err
	}
	return result, nil
}

// ListQuizResults returns the newest results first, 20 by default.
func (s *Service) ListQuizResults(ctx context.Context, limit int) ([]*store.QuizResult, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*store.QuizResult{}, nil
	}
	limit = normalizeLimit(limit, defaultListLimit)
	list, err := s.store.ListQuizResults(ctx, &store.FindQuizResult{
		CreatorID:            &userID,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list quiz results", err)
	}
	return list, nil
}

// GetAverageScore returns the rounded mean score over all of the caller's quizzes.
func (s *Service) GetAverageScore(ctx context.Context) (int32, error) {
	stats, err := s.GetQuizStats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.AverageScore, nil
}

func (s *Service) GetQuizStats(ctx context.Context) (*QuizStats, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return &QuizStats{}, nil
	}
	list, err := s.store.ListQuizResults(ctx, &store.FindQuizResult{CreatorID: &userID})
	if err != nil {
		return nil, internalError("list quiz results", err)
	}
	if len(list) == 0 {
		return &QuizStats{}, nil
	}
	var total float64
	for _, r := range list {
		total += r.Score
	}
	return &QuizStats{
		TotalQuizzes: int32(len(list)),
		AverageScore: int32(math.Round(total / float64(len(list)))),
	}, nil
}

package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/plugin/ai/timeout"
	"github.com/hrygo/studybuddy/plugin/ai/tutor"
	"github.com/hrygo/studybuddy/server/auth"
	aierrors "github.com/hrygo/studybuddy/server/internal/errors"
	"github.com/hrygo/studybuddy/server/internal/observability"
	"github.com/hrygo/studybuddy/store"
)

// Defaults of the schedule request when a field is omitted.
const (
	defaultHoursPerDay  = 2
	defaultScheduleDays = 7
	chatContextTurns    = 10
)

type explainRequest struct {
	Topic string `json:"topic"`
	Depth string `json:"depth"`
}

type explainResponse struct {
	*tutor.Explanation
	HTML string `json:"html"`
}

type flashcardsRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type quizRequest struct {
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
	// NumQuestions is the name used by /api/quiz/generate.
	NumQuestions int `json:"num_questions"`
}

type scheduleRequest struct {
	Topics      []string `json:"topics"`
	HoursPerDay *float64 `json:"hours_per_day"`
	Days        *int     `json:"days"`
}

type chatTurn struct {
	Message  string `json:"message"`
	Response string `json:"response"`
}

type chatRequest struct {
	Message    string     `json:"message"`
	Subject    string     `json:"subject"`
	Difficulty string     `json:"difficulty"`
	History    []chatTurn `json:"history"`
}

type chatResponse struct {
	*tutor.ChatResponse
	HTML string `json:"html"`
}

type studyPlanRequest struct {
	Subject       string  `json:"subject"`
	Goal          string  `json:"goal"`
	HoursPerWeek  float64 `json:"available_hours_per_week"`
	DurationWeeks int     `json:"duration_weeks"`
}

// generate runs one tutor operation with a request scoped logger and records its metrics.
func (s *APIV1Service) generate(c echo.Context, operation string, fn func(ctx context.Context) (any, error)) error {
	ctx := c.Request().Context()
	reqCtx := observability.NewRequestContextWithID(slog.Default(),
		c.Response().Header().Get(echo.HeaderXRequestID), operation, auth.GetUserID(ctx))
	ctx = observability.WithRequestContext(ctx, reqCtx)
	ctx, cancel := context.WithTimeout(ctx, timeout.GenerationTimeout)
	defer cancel()

	result, err := fn(ctx)
	s.Metrics.Record(operation, reqCtx.Duration(), err != nil)
	if err != nil {
		// Status errors come from the study service and already carry their code.
		if _, ok := status.FromError(err); ok {
			reqCtx.Warn("request failed", slog.String("error", err.Error()))
			return err
		}
		aiErr := aierrors.FromTutorError(err)
		if aiErr.Code == aierrors.ErrCodeInvalidArgument {
			reqCtx.Debug("rejected request", slog.String(observability.LogFieldErrorCode, string(aiErr.Code)))
		} else {
			reqCtx.Error("generation failed", err,
				slog.String(observability.LogFieldErrorCode, string(aiErr.Code)),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		}
		return aiErr
	}
	reqCtx.Info("generation completed", slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, result)
}

func (s *APIV1Service) Explain(c echo.Context) error {
	var req explainRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	return s.generate(c, "explain", func(ctx context.Context) (any, error) {
		explanation, err := s.Tutor.ExplainTopic(ctx, req.Topic, req.Depth)
		if err != nil {
			return nil, err
		}
		return &explainResponse{Explanation: explanation, HTML: s.renderHTML(explanation.Explanation)}, nil
	})
}

func (s *APIV1Service) GenerateFlashcards(c echo.Context) error {
	var req flashcardsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	return s.generate(c, "flashcards", func(ctx context.Context) (any, error) {
		return s.Tutor.GenerateFlashcards(ctx, req.Topic, req.Count)
	})
}

func (s *APIV1Service) GenerateQuiz(c echo.Context) error {
	var req quizRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	count := req.Count
	if count == 0 {
		count = req.NumQuestions
	}
	return s.generate(c, "quiz", func(ctx context.Context) (any, error) {
		return s.Tutor.GenerateQuiz(ctx, tutor.QuizRequest{
			Subject:    req.Subject,
			Topic:      req.Topic,
			Difficulty: req.Difficulty,
			Count:      count,
		})
	})
}

func (s *APIV1Service) CreateSchedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	hoursPerDay, days := float64(defaultHoursPerDay), defaultScheduleDays
	if req.HoursPerDay != nil {
		hoursPerDay = *req.HoursPerDay
	}
	if req.Days != nil {
		days = *req.Days
	}
	return s.generate(c, "schedule", func(ctx context.Context) (any, error) {
		return s.Tutor.CreateSchedule(ctx, req.Topics, hoursPerDay, days)
	})
}

// Chat answers a question. Signed in users get their stored history as context
// when the request carries none, and the exchange is appended to it.
func (s *APIV1Service) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	return s.generate(c, "chat", func(ctx context.Context) (any, error) {
		history := make([]tutor.ChatTurn, 0, len(req.History))
		for _, turn := range req.History {
			history = append(history, tutor.ChatTurn{Message: turn.Message, Response: turn.Response})
		}
		signedIn := auth.GetUserID(ctx) != 0
		if signedIn && len(history) == 0 {
			stored, err := s.StudyService.ListChatMessages(ctx, chatContextTurns)
			if err != nil {
				return nil, err
			}
			for _, m := range stored {
				history = append(history, tutor.ChatTurn{Message: m.Message, Response: m.Response})
			}
		}

		resp, err := s.Tutor.Chat(ctx, tutor.ChatRequest{
			Message:    req.Message,
			Subject:    req.Subject,
			Difficulty: req.Difficulty,
			History:    history,
		})
		if err != nil {
			return nil, err
		}
		if signedIn {
			if _, err := s.StudyService.RecordChat(ctx, req.Message, resp.Response, req.Subject, req.Difficulty); err != nil {
				slog.Warn("failed to record chat message", "error", err)
			}
		}
		return &chatResponse{ChatResponse: resp, HTML: s.renderHTML(resp.Response)}, nil
	})
}

func (s *APIV1Service) GenerateStudyPlan(c echo.Context) error {
	var req studyPlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	return s.generate(c, "study_plan", func(ctx context.Context) (any, error) {
		return s.Tutor.GenerateStudyPlan(ctx, tutor.StudyPlanRequest{
			Subject:       req.Subject,
			Goal:          req.Goal,
			HoursPerWeek:  req.HoursPerWeek,
			DurationWeeks: req.DurationWeeks,
		})
	})
}

// GetAIMetrics is restricted to admins.
func (s *APIV1Service) GetAIMetrics(c echo.Context) error {
	claims := auth.GetUserClaims(c.Request().Context())
	if claims == nil {
		return status.Errorf(codes.Unauthenticated, "user not authenticated")
	}
	if claims.Role != store.RoleAdmin.String() {
		return status.Errorf(codes.PermissionDenied, "permission denied")
	}
	snapshot := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"available":   s.Tutor.Available(),
		"successRate": snapshot.SuccessRate(),
		"metrics":     snapshot,
	})
}

func (s *APIV1Service) renderHTML(source string) string {
	html, err := s.MarkdownService.RenderHTML(source)
	if err != nil {
		slog.Warn("failed to render markdown", "error", err)
		return ""
	}
	return html
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studybuddy/server/service/study"
)

type dashboardResponse struct {
	Progress       *overallProgressResponse `json:"progress"`
	RecentActivity []*study.Activity        `json:"recentActivity"`
	QuizStats      *study.QuizStats         `json:"quizStats"`
	SessionStats   *study.StudySessionStats `json:"sessionStats"`
}

// GetOverallProgress answers null for anonymous callers.
func (s *APIV1Service) GetOverallProgress(c echo.Context) error {
	progress, err := s.StudyService.GetOverallProgress(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertOverallProgress(progress))
}

func (s *APIV1Service) GetSubjectProgress(c echo.Context) error {
	progress, err := s.StudyService.GetSubjectProgress(c.Request().Context(), c.Param("subject"))
	if err != nil {
		return err
	}
	if progress == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, convertUserProgress(progress))
}

func (s *APIV1Service) GetRecentActivity(c echo.Context) error {
	activity, err := s.StudyService.GetRecentActivity(c.Request().Context())
	if err != nil {
		return err
	}
	if activity == nil {
		activity = []*study.Activity{}
	}
	return c.JSON(http.StatusOK, map[string]any{"activity": activity})
}

func (s *APIV1Service) GetDashboard(c echo.Context) error {
	dashboard, err := s.StudyService.GetDashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dashboardResponse{
		Progress:       convertOverallProgress(dashboard.Progress),
		RecentActivity: dashboard.RecentActivity,
		QuizStats:      dashboard.QuizStats,
		SessionStats:   dashboard.SessionStats,
	})
}

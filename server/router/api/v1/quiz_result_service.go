package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studybuddy/server/service/study"
)

type saveQuizResultRequest struct {
	Subject        string `json:"subject"`
	Topic          string `json:"topic"`
	TotalQuestions int32  `json:"totalQuestions"`
	CorrectAnswers int32  `json:"correctAnswers"`
	Difficulty     string `json:"difficulty"`
	TimeSpent      int32  `json:"timeSpent"`
}

func (s *APIV1Service) SaveQuizResult(c echo.Context) error {
	var req saveQuizResultRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	result, err := s.StudyService.SaveQuizResult(c.Request().Context(), &study.SaveQuizResultRequest{
		Subject:        req.Subject,
		Topic:          req.Topic,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		Difficulty:     req.Difficulty,
		TimeSpent:      req.TimeSpent,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertQuizResult(result))
}

func (s *APIV1Service) ListQuizResults(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	results, err := s.StudyService.ListQuizResults(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"quizResults": convertList(results, convertQuizResult)})
}

func (s *APIV1Service) GetAverageScore(c echo.Context) error {
	average, err := s.StudyService.GetAverageScore(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int32{"averageScore": average})
}

func (s *APIV1Service) GetQuizStats(c echo.Context) error {
	stats, err := s.StudyService.GetQuizStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studybuddy/server/service/study"
	"github.com/hrygo/studybuddy/store"
)

type createStudySessionRequest struct {
	Type     string `json:"type"`
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Notes    string `json:"notes"`
	Duration int32  `json:"duration"`
}

type updateStudySessionRequest struct {
	Status   *string `json:"status"`
	Duration *int32  `json:"duration"`
	Notes    *string `json:"notes"`
}

func (s *APIV1Service) CreateStudySession(c echo.Context) error {
	var req createStudySessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	session, err := s.StudyService.CreateStudySession(c.Request().Context(), &study.CreateStudySessionRequest{
		Type:     req.Type,
		Subject:  req.Subject,
		Topic:    req.Topic,
		Notes:    req.Notes,
		Duration: req.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertStudySession(session))
}

func (s *APIV1Service) ListStudySessions(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	sessions, err := s.StudyService.ListStudySessions(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"studySessions": convertList(sessions, convertStudySession)})
}

func (s *APIV1Service) GetStudySessionStats(c echo.Context) error {
	stats, err := s.StudyService.GetStudySessionStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *APIV1Service) UpdateStudySession(c echo.Context) error {
	var req updateStudySessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	update := &study.UpdateStudySessionRequest{
		Duration: req.Duration,
		Notes:    req.Notes,
	}
	if req.Status != nil {
		sessionStatus := store.SessionStatus(*req.Status)
		update.Status = &sessionStatus
	}
	session, err := s.StudyService.UpdateStudySession(c.Request().Context(), c.Param("uid"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertStudySession(session))
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListChatMessages returns the caller's history, oldest first.
func (s *APIV1Service) ListChatMessages(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	messages, err := s.StudyService.ListChatMessages(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"chatMessages": convertList(messages, convertChatMessage)})
}

func (s *APIV1Service) ClearChatMessages(c echo.Context) error {
	deleted, err := s.StudyService.ClearChatMessages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studybuddy/store"
)

type saveContentRequest struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
	// Content is the generated artifact, kept as the JSON the client sent.
	Content jsonText `json:"content"`
}

type searchResultResponse struct {
	Content *savedContentResponse `json:"content"`
	Score   float32               `json:"score"`
}

func (s *APIV1Service) SaveContent(c echo.Context) error {
	var req saveContentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	content, err := s.StudyService.SaveContent(c.Request().Context(), store.ContentType(req.Type), req.Topic, string(req.Content))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertSavedContent(content))
}

// ListSavedContents accepts an optional type and a CEL filter over topic, type and favorite.
func (s *APIV1Service) ListSavedContents(c echo.Context) error {
	var contentType *store.ContentType
	if raw := c.QueryParam("type"); raw != "" {
		t := store.ContentType(raw)
		contentType = &t
	}
	contents, err := s.StudyService.ListSavedContents(c.Request().Context(), contentType, c.QueryParam("filter"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"savedContents": convertList(contents, convertSavedContent)})
}

func (s *APIV1Service) ListFavorites(c echo.Context) error {
	contents, err := s.StudyService.ListFavorites(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"savedContents": convertList(contents, convertSavedContent)})
}

func (s *APIV1Service) SearchSavedContents(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	results, err := s.StudyService.SearchSavedContents(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return err
	}
	response := make([]*searchResultResponse, 0, len(results))
	for _, r := range results {
		response = append(response, &searchResultResponse{Content: convertSavedContent(r.Content), Score: r.Score})
	}
	return c.JSON(http.StatusOK, map[string]any{"results": response})
}

func (s *APIV1Service) ToggleFavorite(c echo.Context) error {
	content, err := s.StudyService.ToggleFavorite(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertSavedContent(content))
}

func (s *APIV1Service) DeleteSavedContent(c echo.Context) error {
	if err := s.StudyService.DeleteSavedContent(c.Request().Context(), c.Param("uid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

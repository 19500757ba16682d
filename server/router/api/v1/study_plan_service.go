package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studybuddy/plugin/ai/tutor"
	"github.com/hrygo/studybuddy/server/service/study"
	"github.com/hrygo/studybuddy/store"
)

type createStudyPlanRequest struct {
	Subject       string  `json:"subject"`
	Goal          string  `json:"goal"`
	HoursPerWeek  float64 `json:"hoursPerWeek"`
	DurationWeeks int     `json:"durationWeeks"`
}

type updateStudyPlanRequest struct {
	Progress *int32  `json:"progress"`
	Status   *string `json:"status"`
}

func (s *APIV1Service) CreateStudyPlan(c echo.Context) error {
	var req createStudyPlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	plan, err := s.StudyService.CreateStudyPlan(c.Request().Context(), tutor.StudyPlanRequest{
		Subject:       req.Subject,
		Goal:          req.Goal,
		HoursPerWeek:  req.HoursPerWeek,
		DurationWeeks: req.DurationWeeks,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertStudyPlan(plan))
}

func (s *APIV1Service) ListStudyPlans(c echo.Context) error {
	var planStatus *store.PlanStatus
	if raw := c.QueryParam("status"); raw != "" {
		ps := store.PlanStatus(raw)
		planStatus = &ps
	}
	plans, err := s.StudyService.ListStudyPlans(c.Request().Context(), planStatus)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"studyPlans": convertList(plans, convertStudyPlan)})
}

func (s *APIV1Service) UpdateStudyPlan(c echo.Context) error {
	var req updateStudyPlanRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	update := &study.UpdateStudyPlanRequest{Progress: req.Progress}
	if req.Status != nil {
		ps := store.PlanStatus(*req.Status)
		update.Status = &ps
	}
	plan, err := s.StudyService.UpdateStudyPlan(c.Request().Context(), c.Param("uid"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertStudyPlan(plan))
}

func (s *APIV1Service) DeleteStudyPlan(c echo.Context) error {
	if err := s.StudyService.DeleteStudyPlan(c.Request().Context(), c.Param("uid")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

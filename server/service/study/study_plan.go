package study

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/plugin/ai/tutor"
	"github.com/hrygo/studybuddy/server/auth"
	aierrors "github.com/hrygo/studybuddy/server/internal/errors"
	"github.com/hrygo/studybuddy/store"
)

// UpdateStudyPlanRequest carries optional changes; nil fields are left alone.
type UpdateStudyPlanRequest struct {
	Progress *int32
	Status   *store.PlanStatus
}

// CreateStudyPlan generates a plan with the tutor and stores it as active.
func (s *Service) CreateStudyPlan(ctx context.Context, req tutor.StudyPlanRequest) (*store.StudyPlan, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if s.tutor == nil || !s.tutor.Available() {
		return nil, aierrors.LLMUnavailable("AI is not configured").ToStatus()
	}

	plan, err := s.tutor.GenerateStudyPlan(ctx, req)
	if err != nil {
		return nil, aierrors.FromTutorError(err).ToStatus()
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return nil, internalError("marshal study plan", err)
	}

	now := s.now().Unix()
	created, err := s.store.CreateStudyPlan(ctx, &store.StudyPlan{
		UID:           util.GenUID(),
		CreatorID:     userID,
		CreatedTs:     now,
		UpdatedTs:     now,
		Subject:       plan.Subject,
		Goal:          plan.Goal,
		DurationWeeks: int32(req.DurationWeeks),
		HoursPerWeek:  req.HoursPerWeek,
		PlanData:      string(data),
		Progress:      0,
		Status:        store.PlanActive,
	})
	if err != nil {
		return nil, internalError("create study plan", err)
	}
	return created, nil
}

// ListStudyPlans returns the caller's plans newest first, optionally filtered by status.
func (s *Service) ListStudyPlans(ctx context.Context, planStatus *store.PlanStatus) ([]*store.StudyPlan, error) {
	if planStatus != nil && !planStatus.IsValid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid status %q", *planStatus)
	}
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*store.StudyPlan{}, nil
	}
	limit := maxListLimit
	list, err := s.store.ListStudyPlans(ctx, &store.FindStudyPlan{
		CreatorID:            &userID,
		Status:               planStatus,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list study plans", err)
	}
	return list, nil
}

func (s *Service) UpdateStudyPlan(ctx context.Context, uid string, req *UpdateStudyPlanRequest) (*store.StudyPlan, error) {
	plan, err := s.getOwnStudyPlan(ctx, uid)
	if err != nil {
		return nil, err
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return nil, status.Errorf(codes.InvalidArgument, "progress must be between 0 and 100")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid status %q", *req.Status)
	}

	now := s.now().Unix()
	updated, err := s.store.UpdateStudyPlan(ctx, &store.UpdateStudyPlan{
		ID:        plan.ID,
		UpdatedTs: &now,
		Progress:  req.Progress,
		Status:    req.Status,
	})
	if err != nil {
		return nil, internalError("update study plan", err)
	}
	return updated, nil
}

func (s *Service) DeleteStudyPlan(ctx context.Context, uid string) error {
	plan, err := s.getOwnStudyPlan(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.store.DeleteStudyPlan(ctx, &store.DeleteStudyPlan{ID: plan.ID}); err != nil {
		return internalError("delete study plan", err)
	}
	return nil
}

func (s *Service) getOwnStudyPlan(ctx context.Context, uid string) (*store.StudyPlan, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.store.GetStudyPlan(ctx, &store.FindStudyPlan{UID: &uid, CreatorID: &userID})
	if err != nil {
		return nil, internalError("get study plan", err)
	}
	if plan == nil {
		return nil, status.Errorf(codes.NotFound, "study plan not found")
	}
	return plan, nil
}

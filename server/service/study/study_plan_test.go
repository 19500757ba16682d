package study

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/hrygo/studybuddy/plugin/ai/tutor"
	"github.com/hrygo/studybuddy/store"
)

const planReply = `{
  "overview": "Build up from arithmetic to equations.",
  "weekly_schedule": [
    {"week": 1, "topics": ["Fractions"], "hours": 5},
    {"week": 2, "topics": ["Equations"], "hours": 5}
  ],
  "milestones": ["Solve linear equations"]
}`

func planRequest() tutor.StudyPlanRequest {
	return tutor.StudyPlanRequest{Subject: "Mathematics", Goal: "Pass algebra", HoursPerWeek: 5, DurationWeeks: 2}
}

func TestCreateStudyPlan(t *testing.T) {
	s, _, _ := newTestService()
	_, err := s.CreateStudyPlan(userCtx(1), planRequest())
	requireCode(t, err, codes.Unavailable)

	llm := &fakeLLM{reply: planReply}
	s, _, _ = newTestService(WithTutor(tutor.New(llm)))

	_, err = s.CreateStudyPlan(context.Background(), planRequest())
	requireCode(t, err, codes.Unauthenticated)

	bad := planRequest()
	bad.Goal = ""
	_, err = s.CreateStudyPlan(userCtx(1), bad)
	requireCode(t, err, codes.InvalidArgument)

	plan, err := s.CreateStudyPlan(userCtx(1), planRequest())
	require.NoError(t, err)
	assert.Equal(t, store.PlanActive, plan.Status)
	assert.Equal(t, int32(0), plan.Progress)
	assert.Equal(t, "Mathematics", plan.Subject)
	assert.Equal(t, int32(2), plan.DurationWeeks)

	var generated tutor.StudyPlan
	require.NoError(t, json.Unmarshal([]byte(plan.PlanData), &generated))
	assert.Equal(t, "Build up from arithmetic to equations.", generated.Overview)
	assert.Len(t, generated.WeeklySchedule, 2)

	llm.err = errBoom
	s, _, _ = newTestService(WithTutor(tutor.New(llm)))
	_, err = s.CreateStudyPlan(userCtx(1), planRequest())
	requireCode(t, err, codes.Unavailable)
}

func TestUpdateAndDeleteStudyPlan(t *testing.T) {
	s, _, _ := newTestService(WithTutor(tutor.New(&fakeLLM{reply: planReply})))
	ctx := userCtx(1)

	plan, err := s.CreateStudyPlan(ctx, planRequest())
	require.NoError(t, err)

	tooMuch := int32(101)
	_, err = s.UpdateStudyPlan(ctx, plan.UID, &UpdateStudyPlanRequest{Progress: &tooMuch})
	requireCode(t, err, codes.InvalidArgument)

	bogus := store.PlanStatus("paused")
	_, err = s.UpdateStudyPlan(ctx, plan.UID, &UpdateStudyPlanRequest{Status: &bogus})
	requireCode(t, err, codes.InvalidArgument)

	progress, completed := int32(100), store.PlanCompleted
	updated, err := s.UpdateStudyPlan(ctx, plan.UID, &UpdateStudyPlanRequest{Progress: &progress, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, int32(100), updated.Progress)
	assert.Equal(t, store.PlanCompleted, updated.Status)

	active := store.PlanActive
	list, err := s.ListStudyPlans(ctx, &active)
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = s.ListStudyPlans(ctx, &completed)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = s.ListStudyPlans(ctx, &bogus)
	requireCode(t, err, codes.InvalidArgument)

	_, err = s.UpdateStudyPlan(userCtx(2), plan.UID, &UpdateStudyPlanRequest{Progress: &progress})
	requireCode(t, err, codes.NotFound)
	requireCode(t, s.DeleteStudyPlan(userCtx(2), plan.UID), codes.NotFound)

	require.NoError(t, s.DeleteStudyPlan(ctx, plan.UID))
	list, err = s.ListStudyPlans(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

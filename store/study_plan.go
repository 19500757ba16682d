package store

import "context"

// PlanStatus is the lifecycle state of a study plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

func (s PlanStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known plan status.
func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanActive, PlanCompleted, PlanArchived:
		return true
	}
	return false
}

type StudyPlan struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Subject       string
	Goal          string
	DurationWeeks int32
	HoursPerWeek  float64
	// PlanData is the generated plan serialized as JSON.
	PlanData string
	// Progress is a percentage, 0..100.
	Progress int32
	Status   PlanStatus
}

type FindStudyPlan struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Status    *PlanStatus

	Limit                *int
	OrderByCreatedTsDesc bool
}

type UpdateStudyPlan struct {
	ID int32

	UpdatedTs *int64
	Progress  *int32
	Status    *PlanStatus
}

type DeleteStudyPlan struct {
	ID int32
}

func (s *Store) CreateStudyPlan(ctx context.Context, create *StudyPlan) (*StudyPlan, error) {
	return s.driver.CreateStudyPlan(ctx, create)
}

func (s *Store) ListStudyPlans(ctx context.Context, find *FindStudyPlan) ([]*StudyPlan, error) {
	return s.driver.ListStudyPlans(ctx, find)
}

func (s *Store) GetStudyPlan(ctx context.Context, find *FindStudyPlan) (*StudyPlan, error) {
	list, err := s.ListStudyPlans(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateStudyPlan(ctx context.Context, update *UpdateStudyPlan) (*StudyPlan, error) {
	return s.driver.UpdateStudyPlan(ctx, update)
}

func (s *Store) DeleteStudyPlan(ctx context.Context, delete *DeleteStudyPlan) error {
	return s.driver.DeleteStudyPlan(ctx, delete)
}

package store

import "context"

type QuizResult struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64

	Subject        string
	Topic          string
	TotalQuestions int32
	CorrectAnswers int32
	// Score is the percentage of correct answers, 0..100.
	Score      float64
	Difficulty string
	// TimeSpent in seconds.
	TimeSpent int32
}

type FindQuizResult struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Subject   *string

	Limit                *int
	Offset               *int
	OrderByCreatedTsDesc bool
}

type DeleteQuizResult struct {
	ID int32
}

func (s *Store) CreateQuizResult(ctx context.Context, create *QuizResult) (*QuizResult, error) {
	return s.driver.CreateQuizResult(ctx, create)
}

func (s *Store) ListQuizResults(ctx context.Context, find *FindQuizResult) ([]*QuizResult, error) {
	return s.driver.ListQuizResults(ctx, find)
}

func (s *Store) GetQuizResult(ctx context.Context, find *FindQuizResult) (*QuizResult, error) {
	list, err := s.ListQuizResults(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteQuizResult(ctx context.Context, delete *DeleteQuizResult) error {
	return s.driver.DeleteQuizResult(ctx, delete)
}

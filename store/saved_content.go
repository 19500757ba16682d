package store

import "context"

// ContentType is the kind of generated artifact a user saved.
type ContentType string

const (
	ContentTypeExplanation ContentType = "explanation"
	ContentTypeFlashcards  ContentType = "flashcards"
	ContentTypeQuiz        ContentType = "quiz"
	ContentTypeSchedule    ContentType = "schedule"
)

func (t ContentType) String() string {
	return string(t)
}

// IsValid reports whether t is a known content type.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeExplanation, ContentTypeFlashcards, ContentTypeQuiz, ContentTypeSchedule:
		return true
	}
	return false
}

type SavedContent struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64

	Type  ContentType
	Topic string
	// Content is the generated artifact serialized as JSON.
	Content    string
	IsFavorite bool
}

type FindSavedContent struct {
	ID         *int32
	UID        *string
	CreatorID  *int32
	Type       *ContentType
	IsFavorite *bool
	IDList     []int32

	Limit                *int
	Offset               *int
	OrderByCreatedTsDesc bool
}

type UpdateSavedContent struct {
	ID int32

	UpdatedTs  *int64
	Topic      *string
	Content    *string
	IsFavorite *bool
}

type DeleteSavedContent struct {
	ID int32
}

func (s *Store) CreateSavedContent(ctx context.Context, create *SavedContent) (*SavedContent, error) {
	return s.driver.CreateSavedContent(ctx, create)
}

func (s *Store) ListSavedContents(ctx context.Context, find *FindSavedContent) ([]*SavedContent, error) {
	return s.driver.ListSavedContents(ctx, find)
}

func (s *Store) GetSavedContent(ctx context.Context, find *FindSavedContent) (*SavedContent, error) {
	list, err := s.ListSavedContents(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateSavedContent(ctx context.Context, update *UpdateSavedContent) (*SavedContent, error) {
	return s.driver.UpdateSavedContent(ctx, update)
}

// DeleteSavedContent removes the content together with its embeddings.
func (s *Store) DeleteSavedContent(ctx context.Context, delete *DeleteSavedContent) error {
	return s.driver.DeleteSavedContent(ctx, delete)
}

package store

import "context"

type ChatMessage struct {
	ID        int32
	UID       string
	CreatorID int32
	CreatedTs int64

	Message    string
	Response   string
	Subject    string
	Difficulty string
}

type FindChatMessage struct {
	CreatorID *int32
	Subject   *string

	Limit                *int
	OrderByCreatedTsDesc bool
}

type DeleteChatMessage struct {
	ID        *int32
	CreatorID *int32
}

func (s *Store) CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error) {
	return s.driver.CreateChatMessage(ctx, create)
}

func (s *Store) ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error) {
	return s.driver.ListChatMessages(ctx, find)
}

// DeleteChatMessages deletes by id or clears a creator's whole history. It returns the number of rows removed.
func (s *Store) DeleteChatMessages(ctx context.Context, delete *DeleteChatMessage) (int64, error) {
	return s.driver.DeleteChatMessages(ctx, delete)
}

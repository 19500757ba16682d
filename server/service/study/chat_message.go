package study

import (
	"context"
	"slices"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/store"
)

const defaultChatHistoryLimit = 50

// RecordChat stores one answered chat turn.
func (s *Service) RecordChat(ctx context.Context, message, response, subject, difficulty string) (*store.ChatMessage, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, status.Errorf(codes.InvalidArgument, "message is required")
	}
	chat, err := s.store.CreateChatMessage(ctx, &store.ChatMessage{
		UID:        util.GenUID(),
		CreatorID:  userID,
		CreatedTs:  s.now().Unix(),
		Message:    message,
		Response:   response,
		Subject:    subject,
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, internalError("create chat message", err)
	}
	return chat, nil
}

// ListChatMessages returns the latest turns in conversation order, oldest first.
func (s *Service) ListChatMessages(ctx context.Context, limit int) ([]*store.ChatMessage, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*store.ChatMessage{}, nil
	}
	limit = normalizeLimit(limit, defaultChatHistoryLimit)
	list, err := s.store.ListChatMessages(ctx, &store.FindChatMessage{
		CreatorID:            &userID,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list chat messages", err)
	}
	slices.Reverse(list)
	return list, nil
}

// ClearChatMessages deletes the caller's whole chat history and returns the number of turns removed.
func (s *Service) ClearChatMessages(ctx context.Context) (int64, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return 0, err
	}
	deleted, err := s.store.DeleteChatMessages(ctx, &store.DeleteChatMessage{CreatorID: &userID})
	if err != nil {
		return 0, internalError("delete chat messages", err)
	}
	return deleted, nil
}

package study

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/plugin/ai/timeout"
	"github.com/hrygo/studybuddy/plugin/filter"
	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/store"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SaveContent keeps a generated artifact. content is the artifact as JSON text.
func (s *Service) SaveContent(ctx context.Context, contentType store.ContentType, topic, content string) (*store.SavedContent, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !contentType.IsValid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid content type %q", contentType)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, status.Errorf(codes.InvalidArgument, "topic is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, status.Errorf(codes.InvalidArgument, "content is required")
	}

	now := s.now().Unix()
	saved, err := s.store.CreateSavedContent(ctx, &store.SavedContent{
		UID:        util.GenUID(),
		CreatorID:  userID,
		CreatedTs:  now,
		UpdatedTs:  now,
		Type:       contentType,
		Topic:      topic,
		Content:    content,
		IsFavorite: false,
	})
	if err != nil {
		return nil, internalError("create saved content", err)
	}
	return saved, nil
}

// ListSavedContents returns up to 100 contents, newest first. contentType and
// filterExpr are optional; filterExpr is a boolean expression over
// type, topic, is_favorite and created_ts.
func (s *Service) ListSavedContents(ctx context.Context, contentType *store.ContentType, filterExpr string) ([]*store.SavedContent, error) {
	var program *filter.Program
	if strings.TrimSpace(filterExpr) != "" {
		p, err := filter.Compile(filterExpr)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid filter: %v", err)
		}
		program = p
	}
	if contentType != nil && !contentType.IsValid() {
		return nil, status.Errorf(codes.InvalidArgument, "invalid content type %q", *contentType)
	}

	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*store.SavedContent{}, nil
	}
	limit := maxListLimit
	list, err := s.store.ListSavedContents(ctx, &store.FindSavedContent{
		CreatorID:            &userID,
		Type:                 contentType,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list saved contents", err)
	}
	if program == nil {
		return list, nil
	}
	filtered, err := program.Apply(list)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to evaluate filter: %v", err)
	}
	return filtered, nil
}

// ListFavorites returns the caller's favorite contents, newest first.
func (s *Service) ListFavorites(ctx context.Context) ([]*store.SavedContent, error) {
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*store.SavedContent{}, nil
	}
	favorite, limit := true, maxListLimit
	list, err := s.store.ListSavedContents(ctx, &store.FindSavedContent{
		CreatorID:            &userID,
		IsFavorite:           &favorite,
		Limit:                &limit,
		OrderByCreatedTsDesc: true,
	})
	if err != nil {
		return nil, internalError("list favorites", err)
	}
	return list, nil
}

// ToggleFavorite flips the favorite flag of one of the caller's contents.
func (s *Service) ToggleFavorite(ctx context.Context, uid string) (*store.SavedContent, error) {
	content, err := s.getOwnSavedContent(ctx, uid)
	if err != nil {
		return nil, err
	}
	now, favorite := s.now().Unix(), !content.IsFavorite
	updated, err := s.store.UpdateSavedContent(ctx, &store.UpdateSavedContent{
		ID:         content.ID,
		UpdatedTs:  &now,
		IsFavorite: &favorite,
	})
	if err != nil {
		return nil, internalError("update saved content", err)
	}
	return updated, nil
}

func (s *Service) DeleteSavedContent(ctx context.Context, uid string) error {
	content, err := s.getOwnSavedContent(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSavedContent(ctx, &store.DeleteSavedContent{ID: content.ID}); err != nil {
		return internalError("delete saved content", err)
	}
	return nil
}

// SearchResult is a saved content ranked by similarity to a query.
type SearchResult struct {
	Content *store.SavedContent `json:"content"`
	Score   float32             `json:"score"`
}

// SearchSavedContents ranks the caller's contents by semantic similarity to query.
// It needs the postgres driver and a configured embedding service.
func (s *Service) SearchSavedContents(ctx context.Context, query string, limit int) ([]*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, status.Errorf(codes.InvalidArgument, "query is required")
	}
	userID := auth.GetUserID(ctx)
	if userID == 0 {
		return []*SearchResult{}, nil
	}
	if s.embedding == nil || !s.store.SupportsVectorSearch() {
		return nil, status.Errorf(codes.FailedPrecondition, "semantic search is not available")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	embedCtx, cancel := context.WithTimeout(ctx, timeout.EmbeddingTimeout)
	defer cancel()
	vector, err := s.embedding.Embed(embedCtx, query)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "failed to embed query: %v", err)
	}
	matches, err := s.store.SearchSavedContentsByVector(ctx, &store.VectorSearchOptions{
		CreatorID: userID,
		Vector:    vector,
		Model:     s.embedding.Model(),
		Limit:     limit,
	})
	if err != nil {
		return nil, internalError("search saved contents", err)
	}
	results := make([]*SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, &SearchResult{Content: m.Content, Score: m.Score})
	}
	return results, nil
}

// getOwnSavedContent returns NotFound for missing contents and for contents of other users.
func (s *Service) getOwnSavedContent(ctx context.Context, uid string) (*store.SavedContent, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.store.GetSavedContent(ctx, &store.FindSavedContent{UID: &uid, CreatorID: &userID})
	if err != nil {
		return nil, internalError("get saved content", err)
	}
	if content == nil {
		return nil, status.Errorf(codes.NotFound, "saved content not found")
	}
	return content, nil
}

package study

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/hrygo/studybuddy/store"
)

// fakeStore is an in-memory Store. Ordering mirrors the SQL drivers.
type fakeStore struct {
	mu     sync.Mutex
	nextID int32

	users       []*store.User
	quizResults []*store.QuizResult
	sessions    []*store.StudySession
	contents    []*store.SavedContent
	progress    []*store.UserProgress
	chats       []*store.ChatMessage
	plans       []*store.StudyPlan

	vectorSearch bool
	searchResult []*store.SavedContentWithScore
	lastSearch   *store.VectorSearchOptions
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) id() int32 {
	f.nextID++
	return f.nextID
}

func sortByCreated[T any](list []T, created func(T) (int64, int32), desc bool) {
	slices.SortStableFunc(list, func(a, b T) int {
		at, aid := created(a)
		bt, bid := created(b)
		c := cmp.Or(cmp.Compare(at, bt), cmp.Compare(aid, bid))
		if desc {
			return -c
		}
		return c
	})
}

func limitList[T any](list []T, limit *int) []T {
	if limit != nil && len(list) > *limit {
		return list[:*limit]
	}
	return list
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func (f *fakeStore) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	create.ID = f.id()
	f.users = append(f.users, clone(create))
	return create, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, update *store.UpdateUser) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID != update.ID {
			continue
		}
		if update.UpdatedTs != nil {
			u.UpdatedTs = *update.UpdatedTs
		}
		if update.Username != nil {
			u.Username = *update.Username
		}
		if update.Nickname != nil {
			u.Nickname = *update.Nickname
		}
		if update.AvatarURL != nil {
			u.AvatarURL = *update.AvatarURL
		}
		if update.RowStatus != nil {
			u.RowStatus = *update.RowStatus
		}
		return clone(u), nil
	}
	return nil, nil
}

func (f *fakeStore) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*store.User
	for _, u := range f.users {
		if find.ID != nil && u.ID != *find.ID ||
			find.UID != nil && u.UID != *find.UID ||
			find.Username != nil && u.Username != *find.Username ||
			find.RowStatus != nil && u.RowStatus != *find.RowStatus ||
			find.OAuthGoogleSub != nil && u.OAuthGoogleSub != *find.OAuthGoogleSub {
			continue
		}
		list = append(list, clone(u))
	}
	return limitList(list, find.Limit), nil
}

func (f *fakeStore) GetUser(ctx context.Context, find *store.FindUser) (*store.User, error) {
	list, _ := f.ListUsers(ctx, find)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeStore) CreateQuizResult(_ context.Context, create *store.QuizResult) (*store.QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	create.ID = f.id()
	f.quizResults = append(f.quizResults, clone(create))
	return create, nil
}

func (f *fakeStore) ListQuizResults(_ context.Context, find *store.FindQuizResult) ([]*store.QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*store.QuizResult
	for _, r := range f.quizResults {
		if find.CreatorID != nil && r.CreatorID != *find.CreatorID ||
			find.Subject != nil && r.Subject != *find.Subject {
			continue
		}
		list = append(list, clone(r))
	}
	sortByCreated(list, func(r *store.QuizResult) (int64, int32) { return r.CreatedTs, r.ID }, find.OrderByCreatedTsDesc)
	return limitList(list, find.Limit), nil
}

func (f *fakeStore) CreateStudySession(_ context.Context, create *store.StudySession) (*store.StudySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	create.ID = f.id()
	f.sessions = append(f.sessions, clone(create))
	return create, nil
}

func (f *fakeStore) ListStudySessions(_ context.Context, find *store.FindStudySession) ([]*store.StudySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*store.StudySession
	for _, s := range f.sessions {
		if find.UID != nil && s.UID != *find.UID ||
			find.CreatorID != nil && s.CreatorID != *find.CreatorID ||
			find.Status != nil && s.Status != *find.Status {
			continue
		}
		list = append(list, clone(s))
	}
	sortByCreated(list, func(s *store.StudySession) (int64, int32) { return s.CreatedTs, s.ID }, find.OrderByCreatedTsDesc)
	return limitList(list, find.Limit), nil
}

func (f *fakeStore) GetStudySession(ctx context.Context, find *store.FindStudySession) (*store.StudySession, error) {
	list, _ := f.ListStudySessions(ctx, find)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeStore) UpdateStudySession(_ context.Context, update *store.UpdateStudySession) (*store.StudySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID != update.ID {
			continue
		}
		if update.UnlessStatus != nil && s.Status == *update.UnlessStatus {
			return nil, nil
		}
		if update.UpdatedTs != nil {
			s.UpdatedTs = *update.UpdatedTs
		}
		if update.Status != nil {
			s.Status = *update.Status
		}
		if update.Duration != nil {
			s.Duration = *update.Duration
		}
		if update.Notes != nil {
			s.Notes = *update.Notes
		}
		return clone(s), nil
	}
	return nil, nil
}

func (f *fakeStore) CreateSavedContent(_ context.Context, create *store.SavedContent) (*store.SavedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	create.ID = f.id()
	f.contents = append(f.contents, clone(create))
	return create, nil
}

func (f *fakeStore) ListSavedContents(_ context.Context, find *store.FindSavedContent) ([]*store.SavedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*store.SavedContent
	for _, c := range f.contents {
		if find.UID != nil && c.UID != *find.UID ||
			find.CreatorID != nil && c.CreatorID != *find.CreatorID ||
			find.Type != nil && c.Type != *find.Type ||
			find.IsFavorite != nil && c.IsFavorite != *find.IsFavorite {
			continue
		}
		list = append(list, clone(c))
	}
	sortByCreated(list, func(c *store.SavedContent) (int64, int32) { return c.CreatedTs, c.ID }, find.OrderByCreatedTsDesc)
	return limitList(list, find.Limit), nil
}

func (f *fakeStore) GetSavedContent(ctx context.Context, find *store.FindSavedContent) (*store.SavedContent, error) {
	list, _ := f.ListSavedContents(ctx, find)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeStore) UpdateSavedContent(_ context.Context, update *store.UpdateSavedContent) (*store.SavedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contents {
		if c.ID != update.ID {
			continue
		}
		if update.UpdatedTs != nil {
			c.UpdatedTs = *update.UpdatedTs
		}
		if update.IsFavorite != nil {
			c.IsFavorite = *update.IsFavorite
		}
		return clone(c), nil
	}
	return nil, nil
}

func (f *fakeStore) DeleteSavedContent(_ context.Context, delete *store.DeleteSavedContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents = slices.DeleteFunc(f.contents, func(c *store.SavedContent) bool { return c.ID == delete.ID })
	return nil
}

func (f *fakeStore) SearchSavedContentsByVector(_ context.Context, opts *store.VectorSearchOptions) ([]*store.SavedContentWithScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSearch = opts
	return f.searchResult, nil
}

func (f *fakeStore) SupportsVectorSearch() bool {
	return f.vectorSearch
}

func (f *fakeStore) IncrementUserProgress(_ context.Context, inc *store.UserProgressIncrement) (*store.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var progress *store.UserProgress
	for _, p := range f.progress {
		if p.UserID == inc.UserID && p.Subject == inc.Subject {
			progress = p
		}
	}
	if progress == nil {
		progress = &store.UserProgress{ID: f.id(), UserID: inc.UserID, Subject: inc.Subject}
		f.progress = append(f.progress, progress)
	}

	progress.TotalStudyTime += inc.StudyMinutes
	if inc.QuizScore != nil {
		progress.AverageScore = (progress.AverageScore*float64(progress.QuizzesTaken) + *inc.QuizScore) / float64(progress.QuizzesTaken+1)
		progress.QuizzesTaken++
	}
	lastDay, day := progress.LastStudyTs/86400, inc.StudyTs/86400
	switch {
	case progress.LastStudyTs == 0:
		progress.Streak = 1
	case day <= lastDay:
		progress.Streak = max(progress.Streak, 1)
	case day == lastDay+1:
		progress.Streak++
	default:
		progress.Streak = 1
	}
	progress.LastStudyTs = max(progress.LastStudyTs, inc.StudyTs)
	progress.UpdatedTs = inc.StudyTs
	return clone(progress), nil
}

func (f *fakeStore) ListUserProgress(_ context.Context, find *store.FindUserProgress) ([]*store.UserProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*store.UserProgress
	for _, p := range f.progress {
		if find.UserID != nil && p.UserID != *find.UserID ||
			find.Subject != nil && p.Subject != *find.Subject {
			continue
		}
		list = append(list, clone(p))
	}
	sortByCreated(list, func(p *store.UserProgress) (int64, int32) { return p.LastStudyTs, p.ID }, true)
	return limitList(list, find.Limit), nil
}

func (f *fakeStore) GetUserProgress(ctx context.Context, find *store.FindUserProgress) (*store.UserProgress, error) {
	list, _ := f.ListUserProgress(ctx, find)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeStore) CreateChatMessage(_ context.Context, create *store.ChatMessage) (*store.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	create.ID = f.id()
	f.chats = append(f.chats, clone(create))
	return create, nil
}

func (f *fakeStore) ListChatMessages(_ context.Context, find *store.FindChatMessage) ([]*store.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*store.ChatMessage
	for _, c := range f.chats {
		if find.CreatorID != nil && c.CreatorID != *find.CreatorID {
			continue
		}
		list = append(list, clone(c))
	}
	sortByCreated(list, func(c *store.ChatMessage) (int64, int32) { return c.CreatedTs, c.ID }, find.OrderByCreatedTsDesc)
	return limitList(list, find.Limit), nil
}

func (f *fakeStore) DeleteChatMessages(_ context.Context, delete *store.DeleteChatMessage) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.chats)
	f.chats = slices.DeleteFunc(f.chats, func(c *store.ChatMessage) bool {
		return delete.CreatorID != nil && c.CreatorID == *delete.CreatorID ||
			delete.ID != nil && c.ID == *delete.ID
	})
	return int64(before - len(f.chats)), nil
}

func (f *fakeStore) CreateStudyPlan(_ context.Context, create *store.StudyPlan) (*store.StudyPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	create.ID = f.id()
	f.plans = append(f.plans, clone(create))
	return create, nil
}

func (f *fakeStore) ListStudyPlans(_ context.Context, find *store.FindStudyPlan) ([]*store.StudyPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*store.StudyPlan
	for _, p := range f.plans {
		if find.UID != nil && p.UID != *find.UID ||
			find.CreatorID != nil && p.CreatorID != *find.CreatorID ||
			find.Status != nil && p.Status != *find.Status {
			continue
		}
		list = append(list, clone(p))
	}
	sortByCreated(list, func(p *store.StudyPlan) (int64, int32) { return p.CreatedTs, p.ID }, find.OrderByCreatedTsDesc)
	return limitList(list, find.Limit), nil
}

func (f *fakeStore) GetStudyPlan(ctx context.Context, find *store.FindStudyPlan) (*store.StudyPlan, error) {
	list, _ := f.ListStudyPlans(ctx, find)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (f *fakeStore) UpdateStudyPlan(_ context.Context, update *store.UpdateStudyPlan) (*store.StudyPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.ID != update.ID {
			continue
		}
		if update.UpdatedTs != nil {
			p.UpdatedTs = *update.UpdatedTs
		}
		if update.Progress != nil {
			p.Progress = *update.Progress
		}
		if update.Status != nil {
			p.Status = *update.Status
		}
		return clone(p), nil
	}
	return nil, nil
}

func (f *fakeStore) DeleteStudyPlan(_ context.Context, delete *store.DeleteStudyPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = slices.DeleteFunc(f.plans, func(p *store.StudyPlan) bool { return p.ID == delete.ID })
	return nil
}

package v1

import (
	"encoding/json"

	"github.com/hrygo/studybuddy/plugin/avatar"
	"github.com/hrygo/studybuddy/server/service/study"
	"github.com/hrygo/studybuddy/store"
)

type userResponse struct {
	UID         string `json:"uid"`
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
	CreatedTs   int64  `json:"createdTs"`
}

func convertUser(user *store.User) *userResponse {
	avatarURL := user.AvatarURL
	// Embedded avatars are served from their own endpoint to keep responses small.
	if _, ok := avatar.ParseDataURL(avatarURL); ok {
		avatarURL = "/api/v1/users/" + user.UID + "/avatar"
	}
	return &userResponse{
		UID:         user.UID,
		Username:    user.Username,
		Nickname:    user.Nickname,
		Email:       user.Email,
		Role:        user.Role.String(),
		AvatarURL:   avatarURL,
		IsAnonymous: user.IsAnonymous,
		CreatedTs:   user.CreatedTs,
	}
}

type quizResultResponse struct {
	UID            string  `json:"uid"`
	Subject        string  `json:"subject"`
	Topic          string  `json:"topic"`
	TotalQuestions int32   `json:"totalQuestions"`
	CorrectAnswers int32   `json:"correctAnswers"`
	Score          float64 `json:"score"`
	Difficulty     string  `json:"difficulty"`
	TimeSpent      int32   `json:"timeSpent"`
	CreatedTs      int64   `json:"createdTs"`
}

func convertQuizResult(r *store.QuizResult) *quizResultResponse {
	return &quizResultResponse{
		UID:            r.UID,
		Subject:        r.Subject,
		Topic:          r.Topic,
		TotalQuestions: r.TotalQuestions,
		CorrectAnswers: r.CorrectAnswers,
		Score:          r.Score,
		Difficulty:     r.Difficulty,
		TimeSpent:      r.TimeSpent,
		CreatedTs:      r.CreatedTs,
	}
}

type studySessionResponse struct {
	UID       string `json:"uid"`
	Type      string `json:"type"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	Duration  int32  `json:"duration"`
	Notes     string `json:"notes"`
	Status    string `json:"status"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

func convertStudySession(s *store.StudySession) *studySessionResponse {
	return &studySessionResponse{
		UID:       s.UID,
		Type:      s.Type,
		Subject:   s.Subject,
		Topic:     s.Topic,
		Duration:  s.Duration,
		Notes:     s.Notes,
		Status:    s.Status.String(),
		CreatedTs: s.CreatedTs,
		UpdatedTs: s.UpdatedTs,
	}
}

type savedContentResponse struct {
	UID        string          `json:"uid"`
	Type       string          `json:"type"`
	Topic      string          `json:"topic"`
	Content    json.RawMessage `json:"content"`
	IsFavorite bool            `json:"isFavorite"`
	CreatedTs  int64           `json:"createdTs"`
	UpdatedTs  int64           `json:"updatedTs"`
}

func convertSavedContent(c *store.SavedContent) *savedContentResponse {
	return &savedContentResponse{
		UID:        c.UID,
		Type:       c.Type.String(),
		Topic:      c.Topic,
		Content:    rawJSON(c.Content),
		IsFavorite: c.IsFavorite,
		CreatedTs:  c.CreatedTs,
		UpdatedTs:  c.UpdatedTs,
	}
}

type userProgressResponse struct {
	Subject        string  `json:"subject"`
	TotalStudyTime int32   `json:"totalStudyTime"`
	QuizzesTaken   int32   `json:"quizzesTaken"`
	AverageScore   float64 `json:"averageScore"`
	Streak         int32   `json:"streak"`
	LastStudyTs    int64   `json:"lastStudyTs"`
}

func convertUserProgress(p *store.UserProgress) *userProgressResponse {
	return &userProgressResponse{
		Subject:        p.Subject,
		TotalStudyTime: p.TotalStudyTime,
		QuizzesTaken:   p.QuizzesTaken,
		AverageScore:   p.AverageScore,
		Streak:         p.Streak,
		LastStudyTs:    p.LastStudyTs,
	}
}

type overallProgressResponse struct {
	TotalStudyTime int32                   `json:"totalStudyTime"`
	TotalQuizzes   int32                   `json:"totalQuizzes"`
	AverageScore   int32                   `json:"averageScore"`
	CurrentStreak  int32                   `json:"currentStreak"`
	Subjects       []*userProgressResponse `json:"subjects"`
}

// convertOverallProgress keeps nil as nil so anonymous callers get a JSON null.
func convertOverallProgress(p *study.OverallProgress) *overallProgressResponse {
	if p == nil {
		return nil
	}
	subjects := make([]*userProgressResponse, 0, len(p.Subjects))
	for _, s := range p.Subjects {
		subjects = append(subjects, convertUserProgress(s))
	}
	return &overallProgressResponse{
		TotalStudyTime: p.TotalStudyTime,
		TotalQuizzes:   p.TotalQuizzes,
		AverageScore:   p.AverageScore,
		CurrentStreak:  p.CurrentStreak,
		Subjects:       subjects,
	}
}

type chatMessageResponse struct {
	UID        string `json:"uid"`
	Message    string `json:"message"`
	Response   string `json:"response"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	CreatedTs  int64  `json:"createdTs"`
}

func convertChatMessage(m *store.ChatMessage) *chatMessageResponse {
	return &chatMessageResponse{
		UID:        m.UID,
		Message:    m.Message,
		Response:   m.Response,
		Subject:    m.Subject,
		Difficulty: m.Difficulty,
		CreatedTs:  m.CreatedTs,
	}
}

type studyPlanResponse struct {
	UID           string          `json:"uid"`
	Subject       string          `json:"subject"`
	Goal          string          `json:"goal"`
	DurationWeeks int32           `json:"durationWeeks"`
	HoursPerWeek  float64         `json:"hoursPerWeek"`
	Plan          json.RawMessage `json:"plan"`
	Progress      int32           `json:"progress"`
	Status        string          `json:"status"`
	CreatedTs     int64           `json:"createdTs"`
	UpdatedTs     int64           `json:"updatedTs"`
}

func convertStudyPlan(p *store.StudyPlan) *studyPlanResponse {
	return &studyPlanResponse{
		UID:           p.UID,
		Subject:       p.Subject,
		Goal:          p.Goal,
		DurationWeeks: p.DurationWeeks,
		HoursPerWeek:  p.HoursPerWeek,
		Plan:          rawJSON(p.PlanData),
		Progress:      p.Progress,
		Status:        p.Status.String(),
		CreatedTs:     p.CreatedTs,
		UpdatedTs:     p.UpdatedTs,
	}
}

func convertList[T, R any](list []T, convert func(T) R) []R {
	result := make([]R, 0, len(list))
	for _, item := range list {
		result = append(result, convert(item))
	}
	return result
}

// rawJSON passes stored JSON through unchanged and quotes anything else as a string.
func rawJSON(text string) json.RawMessage {
	if json.Valid([]byte(text)) {
		return json.RawMessage(text)
	}
	quoted, _ := json.Marshal(text)
	return quoted
}

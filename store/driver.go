package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// SystemSetting model related methods.
	UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error)
	ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// StudySession model related methods.
	CreateStudySession(ctx context.Context, create *StudySession) (*StudySession, error)
	ListStudySessions(ctx context.Context, find *FindStudySession) ([]*StudySession, error)
	UpdateStudySession(ctx context.Context, update *UpdateStudySession) (*StudySession, error)
	DeleteStudySession(ctx context.Context, delete *DeleteStudySession) error

	// QuizResult model related methods.
	CreateQuizResult(ctx context.Context, create *QuizResult) (*QuizResult, error)
	ListQuizResults(ctx context.Context, find *FindQuizResult) ([]*QuizResult, error)
	DeleteQuizResult(ctx context.Context, delete *DeleteQuizResult) error

	// SavedContent model related methods.
	CreateSavedContent(ctx context.Context, create *SavedContent) (*SavedContent, error)
	ListSavedContents(ctx context.Context, find *FindSavedContent) ([]*SavedContent, error)
	UpdateSavedContent(ctx context.Context, update *UpdateSavedContent) (*SavedContent, error)
	DeleteSavedContent(ctx context.Context, delete *DeleteSavedContent) error

	// UserProgress model related methods.
	UpsertUserProgress(ctx context.Context, upsert *UserProgress) (*UserProgress, error)
	IncrementUserProgress(ctx context.Context, increment *UserProgressIncrement) (*UserProgress, error)
	ListUserProgress(ctx context.Context, find *FindUserProgress) ([]*UserProgress, error)

	// ChatMessage model related methods.
	CreateChatMessage(ctx context.Context, create *ChatMessage) (*ChatMessage, error)
	ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error)
	DeleteChatMessages(ctx context.Context, delete *DeleteChatMessage) (int64, error)

	// StudyPlan model related methods.
	CreateStudyPlan(ctx context.Context, create *StudyPlan) (*StudyPlan, error)
	ListStudyPlans(ctx context.Context, find *FindStudyPlan) ([]*StudyPlan, error)
	UpdateStudyPlan(ctx context.Context, update *UpdateStudyPlan) (*StudyPlan, error)
	DeleteStudyPlan(ctx context.Context, delete *DeleteStudyPlan) error

	// SavedContentEmbedding model related methods.
	// Drivers without vector support return ErrFeatureNotSupported.
	UpsertSavedContentEmbedding(ctx context.Context, embedding *SavedContentEmbedding) (*SavedContentEmbedding, error)
	FindSavedContentsWithoutEmbedding(ctx context.Context, find *FindSavedContentsWithoutEmbedding) ([]*SavedContent, error)
	SearchSavedContentsByVector(ctx context.Context, opts *VectorSearchOptions) ([]*SavedContentWithScore, error)
}

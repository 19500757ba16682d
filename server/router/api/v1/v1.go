package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/studybuddy/internal/profile"
	"github.com/hrygo/studybuddy/plugin/ai"
	aicache "github.com/hrygo/studybuddy/plugin/ai/cache"
	"github.com/hrygo/studybuddy/plugin/ai/tutor"
	"github.com/hrygo/studybuddy/plugin/idp/oauth2"
	"github.com/hrygo/studybuddy/plugin/markdown"
	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/server/internal/observability"
	"github.com/hrygo/studybuddy/server/middleware"
	"github.com/hrygo/studybuddy/server/service/study"
	"github.com/hrygo/studybuddy/store"
)

type APIV1Service struct {
	Secret           string
	Profile          *profile.Profile
	Store            *store.Store
	StudyService     *study.Service
	Tutor            *tutor.Tutor
	MarkdownService  markdown.Service
	Authenticator    *auth.Authenticator
	EmbeddingService ai.EmbeddingService
	// IdentityProvider is nil when Google sign-in is not configured.
	IdentityProvider *oauth2.IdentityProvider
	RateLimiter      *middleware.RateLimiter
	Metrics          *observability.Metrics

	llm     ai.LLMService
	caches  []interface{ Close() error }
	limiter bool
}

// Option overrides a component built from the profile.
type Option func(*APIV1Service)

// WithLLMService replaces the LLM built from the profile.
func WithLLMService(llm ai.LLMService) Option {
	return func(s *APIV1Service) { s.llm = llm }
}

// WithEmbeddingService replaces the embedding service built from the profile.
func WithEmbeddingService(e ai.EmbeddingService) Option {
	return func(s *APIV1Service) { s.EmbeddingService = e }
}

// WithIdentityProvider replaces the Google identity provider built from the profile.
func WithIdentityProvider(p *oauth2.IdentityProvider) Option {
	return func(s *APIV1Service) { s.IdentityProvider = p }
}

// WithRateLimiter replaces the default AI rate limiter.
func WithRateLimiter(rl *middleware.RateLimiter) Option {
	return func(s *APIV1Service) {
		s.RateLimiter = rl
		s.limiter = true
	}
}

func NewAPIV1Service(secret string, profile *profile.Profile, store *store.Store, opts ...Option) *APIV1Service {
	service := &APIV1Service{
		Secret:          secret,
		Profile:         profile,
		Store:           store,
		MarkdownService: markdown.NewService(),
		Authenticator:   auth.NewAuthenticator(store, secret),
		Metrics:         observability.GlobalMetrics(),
	}
	for _, opt := range opts {
		opt(service)
	}
	if !service.limiter {
		service.RateLimiter = middleware.NewRateLimiter(middleware.DefaultRate, middleware.DefaultBurst)
	}

	// Initialize AI services if enabled
	if profile.IsAIEnabled() {
		aiConfig := ai.NewConfigFromProfile(profile)
		if err := aiConfig.Validate(); err != nil {
			slog.Warn("AI configuration is invalid, AI features are disabled", "error", err)
		} else {
			if service.llm == nil {
				llm, err := ai.NewLLMService(&aiConfig.LLM)
				if err != nil {
					slog.Warn("failed to create LLM service", "error", err)
				}
				service.llm = llm
			}
			if service.EmbeddingService == nil && aiConfig.Embedding.Provider != "" {
				embedding, err := ai.NewEmbeddingService(&aiConfig.Embedding)
				if err != nil {
					slog.Warn("failed to create embedding service", "error", err)
				}
				service.EmbeddingService = embedding
			}
		}
	}

	service.Tutor = tutor.New(service.llm, tutor.WithCache(service.newGenerationCache(), 30*time.Minute))

	if service.IdentityProvider == nil && profile.IsOAuthGoogleEnabled() {
		idp, err := oauth2.NewIdentityProvider(oauth2.Config{
			ClientID:     profile.OAuthGoogleClientID,
			ClientSecret: profile.OAuthGoogleClientSecret,
			RedirectURL:  profile.OAuthGoogleCallbackURL,
		})
		if err != nil {
			slog.Warn("failed to create Google identity provider", "error", err)
		}
		service.IdentityProvider = idp
	}

	studyOpts := []study.Option{study.WithTutor(service.Tutor)}
	if service.EmbeddingService != nil {
		studyOpts = append(studyOpts, study.WithEmbeddingService(service.EmbeddingService))
	}
	service.StudyService = study.NewService(store, secret, studyOpts...)
	return service
}

// newGenerationCache returns the in-process cache, backed by Redis when configured.
func (s *APIV1Service) newGenerationCache() aicache.CacheService {
	local := aicache.NewService(aicache.DefaultServiceConfig())
	s.caches = append(s.caches, local)
	if !s.Profile.IsRedisEnabled() {
		return local
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisConfig := aicache.DefaultRedisConfig()
	redisConfig.Addr = s.Profile.RedisAddr
	redisConfig.Password = s.Profile.RedisPassword
	if s.Profile.RedisPrefix != "" {
		redisConfig.KeyPrefix = s.Profile.RedisPrefix
	}
	remote, err := aicache.NewRedisService(ctx, redisConfig)
	if err != nil {
		slog.Warn("redis unavailable, using in-process generation cache only", "error", err)
		return local
	}
	s.caches = append(s.caches, remote)
	return aicache.NewTiered(local, remote)
}

// Close releases the generation caches.
func (s *APIV1Service) Close() {
	for _, c := range s.caches {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close cache", "error", err)
		}
	}
}

// RegisterRoutes installs the JSON API on echoServer.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.HTTPErrorHandler = errorHandler
	echoServer.GET("/", s.Health)

	v1 := echoServer.Group("/api/v1", s.authMiddleware)
	v1.GET("/subjects", s.ListSubjects)

	v1.POST("/auth/signup", s.SignUp)
	v1.POST("/auth/signin", s.SignIn)
	v1.POST("/auth/anonymous", s.SignInAnonymously)
	v1.GET("/auth/oauth/google", s.StartGoogleSignIn)
	v1.GET("/auth/oauth/google/callback", s.FinishGoogleSignIn)

	v1.GET("/users/me", s.GetCurrentUser)
	v1.PATCH("/users/me", s.UpdateCurrentUser)
	v1.PUT("/users/me/avatar", s.SetAvatar)
	v1.GET("/users/:uid/avatar", s.GetUserAvatar)

	aiGroup := v1.Group("/ai", s.RateLimiter.Middleware())
	aiGroup.POST("/explain", s.Explain)
	aiGroup.POST("/flashcards", s.GenerateFlashcards)
	aiGroup.POST("/quiz", s.GenerateQuiz)
	aiGroup.POST("/schedule", s.CreateSchedule)
	aiGroup.POST("/chat", s.Chat)
	aiGroup.POST("/study-plan", s.GenerateStudyPlan)
	v1.GET("/ai/metrics", s.GetAIMetrics)

	v1.POST("/quiz-results", s.SaveQuizResult)
	v1.GET("/quiz-results", s.ListQuizResults)
	v1.GET("/quiz-results/average", s.GetAverageScore)
	v1.GET("/quiz-results/stats", s.GetQuizStats)

	v1.POST("/study-sessions", s.CreateStudySession)
	v1.GET("/study-sessions", s.ListStudySessions)
	v1.GET("/study-sessions/stats", s.GetStudySessionStats)
	v1.PATCH("/study-sessions/:uid", s.UpdateStudySession)

	v1.POST("/saved-contents", s.SaveContent)
	v1.GET("/saved-contents", s.ListSavedContents)
	v1.GET("/saved-contents/favorites", s.ListFavorites)
	v1.GET("/saved-contents/search", s.SearchSavedContents)
	v1.POST("/saved-contents/:uid/favorite", s.ToggleFavorite)
	v1.DELETE("/saved-contents/:uid", s.DeleteSavedContent)

	v1.GET("/progress", s.GetOverallProgress)
	v1.GET("/progress/subjects/:subject", s.GetSubjectProgress)
	v1.GET("/progress/activity", s.GetRecentActivity)
	v1.GET("/dashboard", s.GetDashboard)

	v1.GET("/chat-messages", s.ListChatMessages)
	v1.DELETE("/chat-messages", s.ClearChatMessages)

	v1.POST("/study-plans", s.CreateStudyPlan)
	v1.GET("/study-plans", s.ListStudyPlans)
	v1.PATCH("/study-plans/:uid", s.UpdateStudyPlan)
	v1.DELETE("/study-plans/:uid", s.DeleteStudyPlan)

	// Paths served by the first Python backends.
	legacy := echoServer.Group("/api", s.authMiddleware)
	legacy.GET("/subjects", s.ListSubjects)
	legacyAI := legacy.Group("", s.RateLimiter.Middleware())
	legacyAI.POST("/explain", s.Explain)
	legacyAI.POST("/flashcards", s.GenerateFlashcards)
	legacyAI.POST("/quiz", s.GenerateQuiz)
	legacyAI.POST("/quiz/generate", s.GenerateQuiz)
	legacyAI.POST("/schedule", s.CreateSchedule)
	legacyAI.POST("/chat", s.Chat)
	legacyAI.POST("/study-plan", s.GenerateStudyPlan)
}

// authMiddleware attaches the caller's identity when a valid bearer token is present.
// Anonymous requests pass through; operations that need a user reject them.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if result := s.Authenticator.Authenticate(ctx, c.Request().Header.Get(echo.HeaderAuthorization)); result != nil {
			ctx = auth.SetUserID(ctx, result.User.ID)
			ctx = auth.SetUserClaimsInContext(ctx, result.Claims)
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *APIV1Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &healthResponse{
		Status:  "healthy",
		Service: "StudyBuddy AI",
		Version: s.Profile.Version,
	})
}

func (*APIV1Service) ListSubjects(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"subjects": tutor.Subjects})
}

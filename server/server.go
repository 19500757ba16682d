package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/net/http2"

	"github.com/hrygo/studybuddy/internal/profile"
	apiv1 "github.com/hrygo/studybuddy/server/router/api/v1"
	"github.com/hrygo/studybuddy/server/runner/embedding"
	"github.com/hrygo/studybuddy/store"
)

// SystemSettingSecret keeps the generated token secret across restarts.
const SystemSettingSecret = "SECRET"

type Server struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	echoServer        *echo.Echo
	apiV1Service      *apiv1.APIV1Service
	runnerCancelFuncs []context.CancelFunc
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Store:   store,
		Profile: profile,
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestID())
	echoServer.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				slog.Warn("request", append(attrs, slog.String("error", v.Error.Error()))...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	echoServer.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins(profile.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	echoServer.Use(middleware.Gzip())
	s.echoServer = echoServer

	secret, err := s.getOrUpsertSecret(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get secret")
	}
	s.Secret = secret

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	s.apiV1Service = apiv1.NewAPIV1Service(s.Secret, profile, store)
	s.apiV1Service.RegisterRoutes(echoServer)
	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := s.echoServer.StartH2CServer(address, &http2.Server{}); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Listen errors surface right away; later ones are logged by echo.
	select {
	case err := <-errCh:
		return errors.Wrap(err, "failed to start server")
	case <-time.After(100 * time.Millisecond):
	}

	s.StartBackgroundRunners(ctx)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")

	for _, cancelFunc := range s.runnerCancelFuncs {
		if cancelFunc != nil {
			cancelFunc()
		}
	}

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	s.apiV1Service.Close()

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}

	slog.Info("studybuddy stopped properly")
}

// StartBackgroundRunners starts the embedding runner when semantic search is possible.
func (s *Server) StartBackgroundRunners(ctx context.Context) {
	if !s.Store.SupportsVectorSearch() || s.apiV1Service.EmbeddingService == nil {
		slog.Info("semantic search disabled, embedding runner not started")
		return
	}

	runnerCtx, cancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, cancel)
	runner := embedding.NewRunner(s.Store, s.apiV1Service.EmbeddingService)
	go runner.Run(runnerCtx)
	slog.Info("embedding runner started")
}

// getOrUpsertSecret prefers the configured secret, then the stored one, and stores a new one otherwise.
func (s *Server) getOrUpsertSecret(ctx context.Context) (string, error) {
	if s.Profile.Secret != "" {
		return s.Profile.Secret, nil
	}
	setting, err := s.Store.GetSystemSetting(ctx, SystemSettingSecret)
	if err != nil {
		return "", err
	}
	if setting != nil && setting.Value != "" {
		return setting.Value, nil
	}
	setting, err = s.Store.UpsertSystemSetting(ctx, &store.SystemSetting{
		Name:        SystemSettingSecret,
		Value:       uuid.NewString(),
		Description: "access token signing secret",
	})
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func corsOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

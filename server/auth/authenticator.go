package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hrygo/studybuddy/store"
)

// UserGetter is the part of the store the authenticator needs.
type UserGetter interface {
	GetUser(ctx context.Context, find *store.FindUser) (*store.User, error)
}

// Authenticator verifies bearer tokens and resolves the user behind them.
type Authenticator struct {
	store  UserGetter
	secret []byte
}

// AuthResult is a successful authentication.
type AuthResult struct {
	Claims *UserClaims
	User   *store.User
}

func NewAuthenticator(store UserGetter, secret string) *Authenticator {
	return &Authenticator{store: store, secret: []byte(secret)}
}

// Authenticate returns nil when the header is missing, malformed, expired or names an archived or deleted user.
func (a *Authenticator) Authenticate(ctx context.Context, authHeader string) *AuthResult {
	token := ExtractBearerToken(authHeader)
	if token == "" {
		return nil
	}
	claims, err := ParseAccessToken(token, a.secret)
	if err != nil {
		slog.Debug("rejected access token", slog.String("error", err.Error()))
		return nil
	}

	user, err := a.store.GetUser(ctx, &store.FindUser{ID: &claims.UserID})
	if err != nil {
		slog.Warn("failed to load authenticated user", slog.Int("userID", int(claims.UserID)), slog.String("error", err.Error()))
		return nil
	}
	if user == nil || user.RowStatus == store.Archived {
		return nil
	}
	return &AuthResult{Claims: claims, User: user}
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(authHeader string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

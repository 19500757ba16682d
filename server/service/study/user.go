package study

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/internal/util"
	"github.com/hrygo/studybuddy/plugin/avatar"
	"github.com/hrygo/studybuddy/plugin/idp/oauth2"
	"github.com/hrygo/studybuddy/server/auth"
	"github.com/hrygo/studybuddy/store"
)

const maxNicknameLength = 64

// AuthResponse is returned by every sign in flow.
type AuthResponse struct {
	User        *store.User
	AccessToken string
	ExpiresAt   time.Time
}

// SignUp creates a password account. The first account of an instance becomes admin.
func (s *Service) SignUp(ctx context.Context, username, password, nickname string) (*AuthResponse, error) {
	username = strings.TrimSpace(username)
	if !util.ValidateUsername(username) {
		return nil, status.Errorf(codes.InvalidArgument, "invalid username %q", username)
	}
	if len(password) < auth.MinPasswordLength {
		return nil, status.Errorf(codes.InvalidArgument, "password must be at least %d characters", auth.MinPasswordLength)
	}
	nickname = strings.TrimSpace(nickname)
	if len(nickname) > maxNicknameLength {
		return nil, status.Errorf(codes.InvalidArgument, "nickname is too long")
	}
	if nickname == "" {
		nickname = username
	}

	existing, err := s.store.GetUser(ctx, &store.FindUser{Username: &username})
	if err != nil {
		return nil, internalError("get user", err)
	}
	if existing != nil {
		return nil, status.Errorf(codes.AlreadyExists, "username %q is already taken", username)
	}

	role := store.RoleUser
	limit := 1
	users, err := s.store.ListUsers(ctx, &store.FindUser{Limit: &limit})
	if err != nil {
		return nil, internalError("list users", err)
	}
	if len(users) == 0 {
		role = store.RoleAdmin
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, internalError("hash password", err)
	}
	user, err := s.createUser(ctx, &store.User{
		Username:     username,
		Role:         role,
		Nickname:     nickname,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// SignIn checks a username and password. Unknown users and wrong passwords are indistinguishable.
func (s *Service) SignIn(ctx context.Context, username, password string) (*AuthResponse, error) {
	username = strings.TrimSpace(username)
	user, err := s.store.GetUser(ctx, &store.FindUser{Username: &username})
	if err != nil {
		return nil, internalError("get user", err)
	}
	if user == nil || user.RowStatus == store.Archived || !auth.ComparePassword(user.PasswordHash, password) {
		return nil, status.Errorf(codes.Unauthenticated, "invalid username or password")
	}
	return s.issueToken(user)
}

// SignInAnonymously creates a throwaway guest account.
func (s *Service) SignInAnonymously(ctx context.Context) (*AuthResponse, error) {
	user, err := s.createUser(ctx, &store.User{
		Username:    "guest_" + util.GenUID()[:10],
		Role:        store.RoleMember,
		Nickname:    "Guest",
		IsAnonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// SignInWithGoogle signs in the account linked to the Google subject, creating it on first sign in.
func (s *Service) SignInWithGoogle(ctx context.Context, info *oauth2.UserInfo) (*AuthResponse, error) {
	if info == nil || info.Sub == "" {
		return nil, status.Errorf(codes.InvalidArgument, "missing google account id")
	}
	user, err := s.store.GetUser(ctx, &store.FindUser{OAuthGoogleSub: &info.Sub})
	if err != nil {
		return nil, internalError("get user", err)
	}
	if user != nil {
		if user.RowStatus == store.Archived {
			return nil, status.Errorf(codes.PermissionDenied, "user is archived")
		}
		return s.issueToken(user)
	}

	username, err := s.availableUsername(ctx, usernameFromEmail(info.Email))
	if err != nil {
		return nil, err
	}
	nickname := strings.TrimSpace(info.Name)
	if nickname == "" {
		nickname = username
	}
	user, err = s.createUser(ctx, &store.User{
		Username:       username,
		Role:           store.RoleUser,
		Email:          info.Email,
		Nickname:       util.TruncateRunes(nickname, maxNicknameLength),
		AvatarURL:      info.Picture,
		OAuthGoogleSub: info.Sub,
	})
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *Service) GetCurrentUser(ctx context.Context) (*store.User, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, internalError("get user", err)
	}
	if user == nil {
		return nil, status.Errorf(codes.NotFound, "user not found")
	}
	return user, nil
}

// UpdateProfile changes the caller's nickname and username. Nil fields are left alone.
func (s *Service) UpdateProfile(ctx context.Context, nickname, username *string) (*store.User, error) {
	user, err := s.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	update := &store.UpdateUser{ID: user.ID, UpdatedTs: &now}
	if nickname != nil {
		v := strings.TrimSpace(*nickname)
		if v == "" || len(v) > maxNicknameLength {
			return nil, status.Errorf(codes.InvalidArgument, "nickname must be 1 to %d characters", maxNicknameLength)
		}
		update.Nickname = &v
	}
	if username != nil && *username != user.Username {
		v := strings.TrimSpace(*username)
		if !util.ValidateUsername(v) {
			return nil, status.Errorf(codes.InvalidArgument, "invalid username %q", v)
		}
		existing, err := s.store.GetUser(ctx, &store.FindUser{Username: &v})
		if err != nil {
			return nil, internalError("get user", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, status.Errorf(codes.AlreadyExists, "username %q is already taken", v)
		}
		update.Username = &v
	}

	updated, err := s.store.UpdateUser(ctx, update)
	if err != nil {
		return nil, internalError("update user", err)
	}
	return updated, nil
}

// SetAvatar normalizes an uploaded image and stores it on the caller's account.
func (s *Service) SetAvatar(ctx context.Context, image []byte) (*store.User, error) {
	user, err := s.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	png, err := s.avatars.Normalize(ctx, image)
	if err != nil {
		switch {
		case errors.Is(err, avatar.ErrTooLarge):
			return nil, status.Errorf(codes.InvalidArgument, "avatar must be at most %d bytes", avatar.MaxUploadSize)
		case errors.Is(err, avatar.ErrInvalidImage):
			return nil, status.Errorf(codes.InvalidArgument, "avatar is not a valid image")
		default:
			return nil, internalError("process avatar", err)
		}
	}

	now, avatarURL := s.now().Unix(), avatar.DataURL(png)
	updated, err := s.store.UpdateUser(ctx, &store.UpdateUser{ID: user.ID, UpdatedTs: &now, AvatarURL: &avatarURL})
	if err != nil {
		return nil, internalError("update user", err)
	}
	return updated, nil
}

// GetUserByUID looks up a public profile, used to serve avatars.
func (s *Service) GetUserByUID(ctx context.Context, uid string) (*store.User, error) {
	normal := store.Normal
	user, err := s.store.GetUser(ctx, &store.FindUser{UID: &uid, RowStatus: &normal})
	if err != nil {
		return nil, internalError("get user", err)
	}
	if user == nil {
		return nil, status.Errorf(codes.NotFound, "user not found")
	}
	return user, nil
}

func (s *Service) createUser(ctx context.Context, create *store.User) (*store.User, error) {
	now := s.now().Unix()
	create.UID = util.GenUID()
	create.RowStatus = store.Normal
	create.CreatedTs = now
	create.UpdatedTs = now
	user, err := s.store.CreateUser(ctx, create)
	if err != nil {
		return nil, internalError("create user", err)
	}
	return user, nil
}

func (s *Service) issueToken(user *store.User) (*AuthResponse, error) {
	expiresAt := s.now().Add(auth.AccessTokenDuration)
	token, err := auth.GenerateAccessToken(user.ID, user.Username, user.Role.String(), expiresAt, s.secret)
	if err != nil {
		return nil, internalError("generate access token", err)
	}
	return &AuthResponse{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// availableUsername returns base, or base with a random suffix when base is taken.
func (s *Service) availableUsername(ctx context.Context, base string) (string, error) {
	existing, err := s.store.GetUser(ctx, &store.FindUser{Username: &base})
	if err != nil {
		return "", internalError("get user", err)
	}
	if existing == nil {
		return base, nil
	}
	return base + "_" + util.GenUID()[:6], nil
}

// usernameFromEmail keeps the letters, digits and underscores of the local part, at most 20 of them.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		if b.Len() == 20 {
			break
		}
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

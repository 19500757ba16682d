package store

import (
	"context"
	"strconv"
)

// Role is the type of a role.
type Role string

const (
	// RoleAdmin is the ADMIN role.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the USER role.
	RoleUser Role = "USER"
	// RoleMember is the MEMBER role, used for anonymous study accounts.
	RoleMember Role = "MEMBER"
)

func (e Role) String() string {
	return string(e)
}

type User struct {
	ID int32

	// Standard fields
	UID       string
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64

	// Domain specific fields
	Username       string
	Role           Role
	Email          string
	Nickname       string
	PasswordHash   string
	AvatarURL      string
	IsAnonymous    bool
	OAuthGoogleSub string
}

type UpdateUser struct {
	ID int32

	UpdatedTs      *int64
	RowStatus      *RowStatus
	Username       *string
	Role           *Role
	Email          *string
	Nickname       *string
	PasswordHash   *string
	AvatarURL      *string
	IsAnonymous    *bool
	OAuthGoogleSub *string
}

type FindUser struct {
	ID             *int32
	UID            *string
	RowStatus      *RowStatus
	Username       *string
	Role           *Role
	Email          *string
	OAuthGoogleSub *string

	// The maximum number of users to return.
	Limit *int
}

type DeleteUser struct {
	ID int32
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}

	s.userCache.Set(ctx, userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}

	s.userCache.Set(ctx, userCacheKey(user.ID), user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}

	for _, user := range list {
		s.userCache.Set(ctx, userCacheKey(user.ID), user)
	}
	return list, nil
}

// GetUser returns the first user matching find, or nil when there is none.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil && isIDOnlyFind(find) {
		if cached, ok := s.userCache.Get(ctx, userCacheKey(*find.ID)); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	list, err := s.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}

	s.userCache.Delete(ctx, userCacheKey(delete.ID))
	return nil
}

func userCacheKey(id int32) string {
	return strconv.Itoa(int(id))
}

// isIDOnlyFind reports whether find narrows by id alone, so a cached user is a valid answer.
func isIDOnlyFind(find *FindUser) bool {
	return find.UID == nil && find.RowStatus == nil && find.Username == nil &&
		find.Role == nil && find.Email == nil && find.OAuthGoogleSub == nil
}

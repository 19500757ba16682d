package auth

import "context"

// ContextKey is the key type of context value.
type ContextKey int

const (
	// UserIDContextKey is the key name used to store user id in the context.
	UserIDContextKey ContextKey = iota
	// UserClaimsContextKey stores the verified token claims.
	UserClaimsContextKey
)

// SetUserID returns a context carrying the authenticated user id.
func SetUserID(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// GetUserID returns the authenticated user id, or 0 for anonymous requests.
func GetUserID(ctx context.Context) int32 {
	if v, ok := ctx.Value(UserIDContextKey).(int32); ok {
		return v
	}
	return 0
}

// SetUserClaimsInContext stores the claims and the user id they carry.
func SetUserClaimsInContext(ctx context.Context, claims *UserClaims) context.Context {
	ctx = context.WithValue(ctx, UserClaimsContextKey, claims)
	return SetUserID(ctx, claims.UserID)
}

func GetUserClaims(ctx context.Context) *UserClaims {
	if v, ok := ctx.Value(UserClaimsContextKey).(*UserClaims); ok {
		return v
	}
	return nil
}

// Package appctx provides request-scoped values extraction.
package appctx

import (
	"context"
)

// User contains the acting operator's identity as supplied by the session
// layer. The engine trusts it and does not re-validate.
type User struct {
	UserID      int64
	Username    string
	DisplayName string
	Role        string
}

type userKey struct{}

// WithUser adds the acting user to context.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns the acting user from context, or nil.
func GetUser(ctx context.Context) *User {
	if v, ok := ctx.Value(userKey{}).(*User); ok {
		return v
	}
	return nil
}

// GetUserID returns the acting user's id from context, or 0.
func GetUserID(ctx context.Context) int64 {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return 0
}

// Package auth carries the authenticated identity of a request through
// its context.
package auth

import (
	"context"

	"github.com/cbonnaire/tidyquest/internal/model"
)

type contextKey struct{}

type AuthContext struct {
	UserID    int64
	Name      string
	Role      string
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

// IsAdmin reports whether the request's user holds the admin role. The
// role comes from the users table at session validation time, never
// from anything the client sends.
func IsAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == model.RoleAdmin
}

package auth

import (
	"context"

	"github.com/joestump/joe-stock/internal/store"
)

type contextKey string

// UserContextKey is the context key for the authenticated *store.User.
const UserContextKey contextKey = "user"

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *store.User) context.Context {
	return context.WithValue(ctx, UserContextKey, u)
}

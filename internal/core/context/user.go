// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext is the authenticated principal of a request.
type UserContext struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// HasAnyRole reports whether the principal holds one of roles.
func (u *UserContext) HasAnyRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if r == u.Role {
			return true
		}
	}
	return false
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasRole checks if user has specific role.
func HasRole(ctx context.Context, role string) bool {
	return GetUser(ctx).HasAnyRole(role)
}

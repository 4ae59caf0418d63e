package userctx

import (
	"context"

	"item-audit-api/models"
)

// Context key type
type contextKey string

const userKey contextKey = "user"

// SetUser adds the authenticated user to the request context
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated user from the request context,
// or nil when the request is anonymous
func GetUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// UserIDHeader carries the authenticated actor's id. Token verification is
// owned by the gateway; this service only stamps audit fields with the actor.
const UserIDHeader = "X-User-ID"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID resolves the actor id from the context, falling back to the gin
// request header when the context was produced by the HTTP middleware.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	if c, ok := ctx.(*gin.Context); ok {
		return c.GetHeader(UserIDHeader)
	}
	return ""
}

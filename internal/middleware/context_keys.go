package middleware

import (
	"context"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is the type for values this package stores in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	userIDKey    = contextKey("userID")
	roleKey      = contextKey("role")
	loggerCtxKey = contextKey("logger")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetActorFromContext returns the caller established by AuthMiddleware.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	return ActorFromCtx(c.Request.Context())
}

// ActorFromCtx reads the caller from a standard context.
func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return domain.Actor{}, false
	}
	role, _ := ctx.Value(roleKey).(string)
	return domain.Actor{UserID: userID, Role: role}, true
}

// WithActor stores the caller in ctx.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	ctx = context.WithValue(ctx, userIDKey, actor.UserID)
	return context.WithValue(ctx, roleKey, actor.Role)
}

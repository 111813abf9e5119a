package middleware

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is the type for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	actorCtxKey  = contextKey("actor")
)

// WithActor returns ctx carrying the authenticated actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}

// ActorFromCtx returns the actor stored by AuthMiddleware.
func ActorFromCtx(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey).(domain.Actor)
	return actor, ok
}

// GetActorFromContext retrieves the authenticated actor for a gin request.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	return ActorFromCtx(c.Request.Context())
}

// GetUserIDFromContext retrieves the authenticated user ID for a gin request.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	actor, ok := GetActorFromContext(c)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}

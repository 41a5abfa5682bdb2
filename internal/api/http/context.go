package http

import (
	"context"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
)

type contextKey int

const actorKey contextKey = iota

func withActor(ctx context.Context, actor domain.Actor) context.Context {
	ctx = logger.WithActorID(ctx, actor.PartyID)
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the caller set by the auth middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

func RequestIDFromContext(ctx context.Context) string {
	return logger.RequestID(ctx)
}

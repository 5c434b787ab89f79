// Package auth carries the signed-in admin through request contexts.
package auth

import (
	"context"
	"strconv"
)

type actorKey struct{}

// Actor is the authenticated admin performing a request.
type Actor struct {
	UserID   uint
	Username string
}

// ID is the identifier stamped into created_by/updated_by.
func (a Actor) ID() string {
	return strconv.FormatUint(uint64(a.UserID), 10)
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor stored in ctx, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// ContextSession resolves the current actor from the request context. An
// anonymous context yields an empty identifier.
type ContextSession struct{}

// CurrentActor implements repository.Session.
func (ContextSession) CurrentActor(ctx context.Context) (string, error) {
	actor, ok := ActorFrom(ctx)
	if !ok || actor.UserID == 0 {
		return "", nil
	}
	return actor.ID(), nil
}

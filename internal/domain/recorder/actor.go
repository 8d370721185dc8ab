package recorder

import (
	"context"
	"strings"
)

// Actor identifies the user performing a change. The zero Actor means the
// change was system-initiated.
type Actor struct {
	UserID string
	Name   string
}

// IsZero reports whether no acting user is known.
func (a Actor) IsZero() bool {
	return a.UserID == "" && a.Name == ""
}

type actorContextKey struct{}

// WithActor attaches a normalized actor to ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, normalizeActor(actor))
}

// ActorFromContext returns the actor attached to ctx, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	if !ok || actor.IsZero() {
		return Actor{}, false
	}
	return actor, true
}

func normalizeActor(actor Actor) Actor {
	actor.UserID = strings.TrimSpace(actor.UserID)
	actor.Name = strings.TrimSpace(actor.Name)
	return actor
}

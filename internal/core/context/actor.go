// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Actor identifies who triggered an operation (HTTP client, CLI, scheduler).
type Actor struct {
	Name   string
	Source string
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorName returns actor name from context or empty string.
func GetActorName(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.Name
	}
	return ""
}

// System returns a context carrying the scheduler actor.
func System(ctx context.Context) context.Context {
	return WithActor(ctx, &Actor{Name: "system", Source: "scheduler"})
}

package api

import (
	"context"
	"errors"

	"github.com/hyperengineering/compass/internal/session"
)

// sessionContextKey is the context key for the resolved session.
type sessionContextKey struct{}

// ErrNoSessionInContext indicates no session was found in the context.
var ErrNoSessionInContext = errors.New("no session in context")

// WithSession returns a new context with the session attached.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext extracts the session from the context.
// Returns ErrNoSessionInContext if not present or nil.
func SessionFromContext(ctx context.Context) (*session.Session, error) {
	s, ok := ctx.Value(sessionContextKey{}).(*session.Session)
	if !ok || s == nil {
		return nil, ErrNoSessionInContext
	}
	return s, nil
}

// MustSessionFromContext extracts the session or panics.
// Use only when middleware guarantees session presence.
func MustSessionFromContext(ctx context.Context) *session.Session {
	s, err := SessionFromContext(ctx)
	if err != nil {
		panic("session not in context: middleware misconfiguration")
	}
	return s
}

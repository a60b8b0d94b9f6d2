package session

import (
	"context"
)

// Registry is the injected session store. Implementations must synchronize
// access internally and must return private copies: a session fetched for
// one request is never shared with another in-flight request.
type Registry interface {
	// Get returns a copy of the stored session, or errors.ErrSessionNotFound.
	Get(ctx context.Context, key Key) (*Session, error)

	// Put stores a copy of the session under its key.
	Put(ctx context.Context, sess *Session) error

	// Clear removes one session (logout/reset).
	Clear(ctx context.Context, key Key) error

	// ClearAll removes every session.
	ClearAll(ctx context.Context) error
}

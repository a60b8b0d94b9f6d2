package memory

import (
	"context"
	"sync"

	"hermes/internal/domain/session"
	"hermes/pkg/errors"
)

// Compile-time check
var _ session.Registry = (*SessionRegistry)(nil)

// SessionRegistry is the default in-process session store. Map access is
// mutex-guarded; sessions are copied on the way in and out so concurrent
// requests never share mutable state.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[session.Key]*session.Session
}

// NewSessionRegistry creates an empty in-memory registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[session.Key]*session.Session),
	}
}

// Get returns a private copy of the stored session.
func (r *SessionRegistry) Get(_ context.Context, key session.Key) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[key]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// Put stores a copy of the session under its key.
func (r *SessionRegistry) Put(_ context.Context, sess *session.Session) error {
	if sess == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil session")
	}

	key := session.Key{ClientID: sess.ClientID, SessionID: sess.SessionID}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key] = sess.Clone()
	return nil
}

// Clear removes one session.
func (r *SessionRegistry) Clear(_ context.Context, key session.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
	return nil
}

// ClearAll removes every session.
func (r *SessionRegistry) ClearAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[session.Key]*session.Session)
	return nil
}

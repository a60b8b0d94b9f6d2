package redis

import (
	"context"
	"time"

	redisadapter "hermes/internal/adapters/redis"
	"hermes/internal/domain/session"
	"hermes/pkg/errors"
)

// Compile-time check
var _ session.Registry = (*SessionRegistry)(nil)

// SessionRegistry stores sessions as TTL'd JSON documents in Redis.
// JSON round-trips naturally give each caller a private copy.
type SessionRegistry struct {
	client *redisadapter.Client
	ttl    time.Duration
}

// NewSessionRegistry creates a Redis-backed registry.
func NewSessionRegistry(client *redisadapter.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{client: client, ttl: ttl}
}

func sessionKey(key session.Key) string {
	return "session:" + key.String()
}

// Get returns the stored session.
func (r *SessionRegistry) Get(ctx context.Context, key session.Key) (*session.Session, error) {
	var sess session.Session
	err := r.client.Get(ctx, sessionKey(key), &sess)
	if err != nil {
		if redisadapter.IsNil(err) {
			return nil, errors.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "redis session lookup failed")
	}
	return &sess, nil
}

// Put stores the session with the configured TTL.
func (r *SessionRegistry) Put(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil session")
	}
	key := session.Key{ClientID: sess.ClientID, SessionID: sess.SessionID}
	return r.client.Set(ctx, sessionKey(key), sess, r.ttl)
}

// Clear removes one session.
func (r *SessionRegistry) Clear(ctx context.Context, key session.Key) error {
	return r.client.Delete(ctx, sessionKey(key))
}

// ClearAll is not supported for the Redis registry; sessions expire via TTL.
func (r *SessionRegistry) ClearAll(_ context.Context) error {
	return errors.Wrap(errors.ErrInvalidInput, "clear-all not supported for redis registry")
}

package session

import (
	"context"

	"hermes/internal/domain/portfolio"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Service owns session lifecycle: dependency loading on first query,
// memory updates after each turn, and explicit clearing on logout/reset.
type Service struct {
	registry        Registry
	holdings        portfolio.Repository
	maxHistoryTurns int
	log             *logger.Logger
}

// NewService creates a new session service.
func NewService(registry Registry, holdings portfolio.Repository, maxHistoryTurns int) *Service {
	if maxHistoryTurns <= 0 {
		maxHistoryTurns = DefaultMaxHistoryTurns
	}
	return &Service{
		registry:        registry,
		holdings:        holdings,
		maxHistoryTurns: maxHistoryTurns,
		log:             logger.Get().With("component", "session_service"),
	}
}

// GetOrCreate returns a private copy of the stored session, loading client
// dependencies (portfolio, symbol-name map) when no session exists yet.
func (s *Service) GetOrCreate(ctx context.Context, clientID, sessionID string) (*Session, error) {
	key := Key{ClientID: clientID, SessionID: sessionID}

	sess, err := s.registry.Get(ctx, key)
	if err == nil {
		metrics.SessionLoads.WithLabelValues("registry").Inc()
		return sess, nil
	}
	if !errors.Is(err, errors.ErrSessionNotFound) {
		return nil, errors.Wrap(err, "failed to fetch session")
	}

	return s.load(ctx, clientID, sessionID)
}

// load builds a fresh session from the holdings repository.
func (s *Service) load(ctx context.Context, clientID, sessionID string) (*Session, error) {
	holdings, err := s.holdings.HoldingsForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	sess := New(clientID, sessionID)
	sess.Portfolio = holdings
	sess.SymbolNameMap = BuildSymbolNameMap(holdings)

	if err := s.registry.Put(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	metrics.SessionLoads.WithLabelValues("database").Inc()
	metrics.SessionsActive.Inc()
	s.log.Infof("Loaded dependencies for client=%s session=%s: %d holdings, %d symbols",
		clientID, sessionID, len(holdings), len(sess.SymbolNameMap))

	return sess.Clone(), nil
}

// RecordTurn appends one exchange to the session's chat history, evicting
// the oldest turns beyond the configured bound, and persists the session.
func (s *Service) RecordTurn(ctx context.Context, sess *Session, turn ChatTurn) error {
	sess.AppendTurn(turn, s.maxHistoryTurns)

	if err := s.registry.Put(ctx, sess); err != nil {
		return errors.Wrap(err, "failed to persist session memory")
	}
	return nil
}

// Clear removes the session (logout/reset).
func (s *Service) Clear(ctx context.Context, clientID, sessionID string) error {
	key := Key{ClientID: clientID, SessionID: sessionID}
	if err := s.registry.Clear(ctx, key); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}
	metrics.SessionsActive.Dec()
	s.log.Infof("Cleared session for client=%s session=%s", clientID, sessionID)
	return nil
}

package query

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hermes/internal/agents"
	"hermes/internal/domain/session"
	"hermes/internal/tools/calculator"
	"hermes/internal/tools/marketdata"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Request is one natural-language query from a client. PreviousSession
// carries the session payload from the prior turn; when nil the session
// is loaded (or created) from the registry.
type Request struct {
	ClientID        string           `json:"client_id"`
	SessionID       string           `json:"session_id"`
	Query           string           `json:"query"`
	PreviousSession *session.Session `json:"previous_session,omitempty"`
}

// Response is the full answer envelope: the prose answer plus the
// structured agent outputs and the session payload for the next turn.
type Response struct {
	ClientID           string                  `json:"client_id"`
	SessionID          string                  `json:"session_id"`
	Intent             agents.Intent           `json:"intent"`
	FinalResponse      string                  `json:"final_response"`
	StructuredResponse *calculator.Result      `json:"structured_response,omitempty"`
	MarketResponse     *marketdata.Result      `json:"market_response,omitempty"`
	Validation         agents.ValidationResult `json:"validation"`
	Session            *session.Session        `json:"session"`
}

// Service is the top-level request handler: it validates input, resolves
// the session, runs the orchestrator and records the turn. It is the only
// layer that returns errors to the caller, and only for invalid input or
// a client with no portfolio.
type Service struct {
	sessions     *session.Service
	orchestrator *agents.Orchestrator
	log          *logger.Logger
}

// NewService wires the query service.
func NewService(sessions *session.Service, orchestrator *agents.Orchestrator) *Service {
	return &Service{
		sessions:     sessions,
		orchestrator: orchestrator,
		log:          logger.Get().With("component", "query_service"),
	}
}

// Handle processes one query end to end.
func (s *Service) Handle(ctx context.Context, req Request) (*Response, error) {
	req.Query = strings.TrimSpace(req.Query)
	req.ClientID = strings.TrimSpace(req.ClientID)

	if req.ClientID == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "client_id is required")
	}
	if req.Query == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "query is required")
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	sess := req.PreviousSession
	if sess == nil {
		loaded, err := s.sessions.GetOrCreate(ctx, req.ClientID, req.SessionID)
		if err != nil {
			return nil, err
		}
		sess = loaded
	}

	state := s.orchestrator.Run(ctx, &agents.State{
		Query:     req.Query,
		ClientID:  req.ClientID,
		SessionID: req.SessionID,
		Session:   sess,
	})

	turn := session.ChatTurn{
		UserText:      req.Query,
		AssistantText: state.FinalResponse,
		Debug: map[string]interface{}{
			"intent":     state.Classification.Intent,
			"entities":   state.Classification.Entities,
			"plan":       state.Plan,
			"validation": state.Validation,
		},
	}
	if err := s.sessions.RecordTurn(ctx, sess, turn); err != nil {
		s.log.Warnw("failed to persist chat turn",
			"client_id", req.ClientID, "session_id", req.SessionID, "error", err)
	}

	return &Response{
		ClientID:           req.ClientID,
		SessionID:          req.SessionID,
		Intent:             state.Classification.Intent,
		FinalResponse:      state.FinalResponse,
		StructuredResponse: state.PortfolioResult,
		MarketResponse:     state.MarketResult,
		Validation:         state.Validation,
		Session:            sess,
	}, nil
}

// ClearSession drops a session from the registry, e.g. on logout.
func (s *Service) ClearSession(ctx context.Context, clientID, sessionID string) error {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(sessionID) == "" {
		return errors.Wrap(errors.ErrInvalidInput, "client_id and session_id are required")
	}
	return s.sessions.Clear(ctx, clientID, sessionID)
}

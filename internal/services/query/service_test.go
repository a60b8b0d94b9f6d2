package query

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/adapters/ai"
	"hermes/internal/agents"
	"hermes/internal/domain/portfolio"
	"hermes/internal/domain/session"
	"hermes/internal/repository/memory"
	"hermes/internal/tools/calculator"
	"hermes/internal/tools/marketdata"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

func init() {
	logger.Init("error", "test")
}

type scriptedLLM struct {
	text        string
	jsonPayload string
}

func (s *scriptedLLM) GenerateText(context.Context, string) (string, error) {
	return s.text, nil
}

func (s *scriptedLLM) GenerateJSON(_ context.Context, _ string, dest interface{}) error {
	return json.Unmarshal([]byte(s.jsonPayload), dest)
}

func (s *scriptedLLM) SelectFunction(context.Context, ai.FunctionCallRequest) (*ai.FunctionCallResult, error) {
	return &ai.FunctionCallResult{Status: ai.StatusNoFunctionCall}, nil
}

type stubHoldingsRepo struct {
	holdings []portfolio.Holding
	err      error
	calls    int
}

func (r *stubHoldingsRepo) HoldingsForClient(context.Context, string) ([]portfolio.Holding, error) {
	r.calls++
	return r.holdings, r.err
}

type stubPortfolioExecutor struct{}

func (stubPortfolioExecutor) Execute(_ context.Context, clientID string, _ []portfolio.Holding, _ []portfolio.FunctionCall) calculator.Result {
	return calculator.Result{Status: calculator.StatusSuccess, ClientID: clientID, Results: map[string]interface{}{}}
}

type stubMarketExecutor struct{}

func (stubMarketExecutor) Fetch(_ context.Context, entities []string) marketdata.Result {
	return marketdata.Result{Status: marketdata.StatusSuccess, Entities: entities}
}

func testHoldings() []portfolio.Holding {
	return []portfolio.Holding{{
		ClientID: "client-1", Symbol: "AAPL", SecurityName: "Apple Inc",
		Quantity: decimal.NewFromInt(10), PurchasePrice: decimal.NewFromInt(100),
	}}
}

func newTestService(repo *stubHoldingsRepo) (*Service, session.Registry) {
	llm := &scriptedLLM{
		text:        "You hold Apple.",
		jsonPayload: `{"validation_result": "pass"}`,
	}
	registry := memory.NewSessionRegistry()
	sessions := session.NewService(registry, repo, 5)

	orchestrator := agents.NewOrchestrator(
		agents.NewClassifier(llm, nil, 0.7),
		agents.NewPlanner(llm),
		stubMarketExecutor{},
		stubPortfolioExecutor{},
		agents.NewResponseGenerator(llm),
		agents.NewValidator(llm),
	)
	return NewService(sessions, orchestrator), registry
}

func TestHandleRejectsEmptyClientID(t *testing.T) {
	svc, _ := newTestService(&stubHoldingsRepo{holdings: testHoldings()})

	_, err := svc.Handle(context.Background(), Request{Query: "What are my holdings?"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestHandleRejectsEmptyQuery(t *testing.T) {
	svc, _ := newTestService(&stubHoldingsRepo{holdings: testHoldings()})

	_, err := svc.Handle(context.Background(), Request{ClientID: "client-1", Query: "   "})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestHandleAssignsSessionIDWhenMissing(t *testing.T) {
	svc, _ := newTestService(&stubHoldingsRepo{holdings: testHoldings()})

	resp, err := svc.Handle(context.Background(), Request{
		ClientID: "client-1",
		Query:    "What are my holdings?",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, agents.IntentPortfolio, resp.Intent)
	assert.Equal(t, "You hold Apple.", resp.FinalResponse)
}

func TestHandleRecordsTurnInRegistry(t *testing.T) {
	svc, registry := newTestService(&stubHoldingsRepo{holdings: testHoldings()})

	resp, err := svc.Handle(context.Background(), Request{
		ClientID:  "client-1",
		SessionID: "session-1",
		Query:     "What are my holdings?",
	})
	require.NoError(t, err)

	stored, err := registry.Get(context.Background(), session.Key{ClientID: "client-1", SessionID: "session-1"})
	require.NoError(t, err)
	require.Len(t, stored.ChatHistory, 1)
	assert.Equal(t, "What are my holdings?", stored.ChatHistory[0].UserText)
	assert.Equal(t, resp.FinalResponse, stored.ChatHistory[0].AssistantText)
}

func TestHandleReusesPreviousSessionPayload(t *testing.T) {
	repo := &stubHoldingsRepo{holdings: testHoldings()}
	svc, _ := newTestService(repo)

	prev := session.New("client-1", "session-1")
	prev.Portfolio = testHoldings()
	prev.SymbolNameMap = session.BuildSymbolNameMap(prev.Portfolio)

	resp, err := svc.Handle(context.Background(), Request{
		ClientID:        "client-1",
		SessionID:       "session-1",
		Query:           "How is Apple doing?",
		PreviousSession: prev,
	})

	require.NoError(t, err)
	assert.Zero(t, repo.calls, "previous session skips dependency loading")
	require.NotNil(t, resp.Session)
	assert.Len(t, resp.Session.ChatHistory, 1)
}

func TestHandleSurfacesMissingPortfolio(t *testing.T) {
	svc, _ := newTestService(&stubHoldingsRepo{err: errors.ErrPortfolioNotFound})

	_, err := svc.Handle(context.Background(), Request{
		ClientID: "client-x",
		Query:    "What are my holdings?",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPortfolioNotFound))
}

func TestClearSessionValidatesInput(t *testing.T) {
	svc, _ := newTestService(&stubHoldingsRepo{holdings: testHoldings()})

	err := svc.ClearSession(context.Background(), "", "session-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestClearSessionRemovesState(t *testing.T) {
	svc, registry := newTestService(&stubHoldingsRepo{holdings: testHoldings()})

	_, err := svc.Handle(context.Background(), Request{
		ClientID:  "client-1",
		SessionID: "session-1",
		Query:     "What are my holdings?",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ClearSession(context.Background(), "client-1", "session-1"))

	_, err = registry.Get(context.Background(), session.Key{ClientID: "client-1", SessionID: "session-1"})
	assert.True(t, errors.Is(err, errors.ErrSessionNotFound))
}

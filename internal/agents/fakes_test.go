package agents

import (
	"context"
	"encoding/json"

	"hermes/internal/adapters/ai"
	"hermes/internal/domain/portfolio"
	"hermes/internal/tools/calculator"
	"hermes/internal/tools/marketdata"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

func init() {
	logger.Init("error", "test")
}

// fakeLLM scripts every LLM capability independently and counts calls.
type fakeLLM struct {
	textResponse string
	textErr      error
	textCalls    int

	jsonPayload string // raw JSON decoded into dest
	jsonErr     error
	jsonCalls   int

	selectResult *ai.FunctionCallResult
	selectErr    error
	selectCalls  int
}

func (f *fakeLLM) GenerateText(context.Context, string) (string, error) {
	f.textCalls++
	return f.textResponse, f.textErr
}

func (f *fakeLLM) GenerateJSON(_ context.Context, _ string, dest interface{}) error {
	f.jsonCalls++
	if f.jsonErr != nil {
		return f.jsonErr
	}
	return json.Unmarshal([]byte(f.jsonPayload), dest)
}

func (f *fakeLLM) SelectFunction(context.Context, ai.FunctionCallRequest) (*ai.FunctionCallResult, error) {
	f.selectCalls++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	if f.selectResult != nil {
		return f.selectResult, nil
	}
	return &ai.FunctionCallResult{Status: ai.StatusNoFunctionCall}, nil
}

// failingSelector always errors, forcing the planner's rule cascade.
func failingSelector() *fakeLLM {
	return &fakeLLM{selectErr: errors.ErrLLMUnavailable}
}

type fakePortfolioExecutor struct {
	result calculator.Result
	calls  [][]portfolio.FunctionCall
}

func (f *fakePortfolioExecutor) Execute(_ context.Context, clientID string, _ []portfolio.Holding, calls []portfolio.FunctionCall) calculator.Result {
	f.calls = append(f.calls, calls)
	if f.result.Status == "" {
		return calculator.Result{Status: calculator.StatusSuccess, ClientID: clientID, Results: map[string]interface{}{}}
	}
	return f.result
}

type fakeMarketExecutor struct {
	result marketdata.Result
	calls  [][]string
}

func (f *fakeMarketExecutor) Fetch(_ context.Context, entities []string) marketdata.Result {
	f.calls = append(f.calls, entities)
	if f.result.Status == "" {
		return marketdata.Result{Status: marketdata.StatusSuccess, Entities: entities}
	}
	return f.result
}

// testSymbolMap mirrors what BuildSymbolNameMap derives from a small
// holdings table.
func testSymbolMap() map[string][]string {
	return map[string][]string{
		"TSLA": {"tesla inc", "tesla"},
		"MSFT": {"microsoft corp", "microsoft"},
		"AAPL": {"apple inc", "apple"},
	}
}

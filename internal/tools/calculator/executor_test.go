package calculator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/portfolio"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

type stubPriceSource struct {
	prices map[string]float64
	err    error
	calls  int
}

func (s *stubPriceSource) LatestPrice(_ context.Context, symbol string) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.prices[symbol], nil
}

func newTestExecutor(prices *stubPriceSource) *Executor {
	logger.Init("error", "test")
	return NewExecutor(prices)
}

func TestExecuteRunsEveryCall(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 150, "MSFT": 180, "JNJ": 55}}
	exec := newTestExecutor(prices)

	result := exec.Execute(context.Background(), "client-1", fixtureHoldings(), []portfolio.FunctionCall{
		{Name: portfolio.FuncGetReturns, Arguments: map[string]interface{}{"entities": []interface{}{"AAPL"}}},
		{Name: portfolio.FuncGetHoldings, Arguments: map[string]interface{}{}},
	})

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 2, result.NumFunctions)
	assert.Contains(t, result.Results, "get_returns")
	assert.Contains(t, result.Results, "get_holdings")
}

func TestExecuteFetchesEachPriceOnce(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 150, "MSFT": 180, "JNJ": 55}}
	exec := newTestExecutor(prices)

	exec.Execute(context.Background(), "client-1", fixtureHoldings(), []portfolio.FunctionCall{
		{Name: portfolio.FuncGetReturns},
		{Name: portfolio.FuncGetBestPerformers},
		{Name: portfolio.FuncGetAllocation},
	})

	assert.Equal(t, 3, prices.calls, "one quote per distinct symbol")
}

func TestExecuteUnknownFunctionIsTaggedNotFatal(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 150, "MSFT": 180, "JNJ": 55}}
	exec := newTestExecutor(prices)

	result := exec.Execute(context.Background(), "client-1", fixtureHoldings(), []portfolio.FunctionCall{
		{Name: portfolio.FunctionName("drop_tables")},
		{Name: portfolio.FuncGetHoldings},
	})

	assert.Equal(t, StatusSuccess, result.Status)

	entry, ok := result.Results["drop_tables"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, entry["error"], "drop_tables")
	assert.Contains(t, result.Results, "get_holdings")
}

func TestExecuteEmptyPlanDefaultsToReturns(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 150, "MSFT": 180, "JNJ": 55}}
	exec := newTestExecutor(prices)

	result := exec.Execute(context.Background(), "client-1", fixtureHoldings(), nil)

	assert.Equal(t, StatusSuccess, result.Status)
	require.Contains(t, result.Results, "get_returns")
	entries := result.Results["get_returns"].(map[string]interface{})["returns"].([]ReturnEntry)
	assert.Len(t, entries, 3)
}

func TestExecuteNoHoldings(t *testing.T) {
	exec := newTestExecutor(&stubPriceSource{})

	result := exec.Execute(context.Background(), "client-1", nil, []portfolio.FunctionCall{
		{Name: portfolio.FuncGetReturns},
	})

	assert.Equal(t, StatusError, result.Status)
	assert.NotEmpty(t, result.Message)
	assert.Zero(t, len(result.Results))
}

func TestExecutePriceFailureFallsBackToPurchasePrice(t *testing.T) {
	exec := newTestExecutor(&stubPriceSource{err: errors.ErrUnavailable})

	result := exec.Execute(context.Background(), "client-1", fixtureHoldings(), []portfolio.FunctionCall{
		{Name: portfolio.FuncGetReturns, Arguments: map[string]interface{}{"entities": []interface{}{"AAPL"}}},
	})

	require.Equal(t, StatusSuccess, result.Status)
	entries := result.Results["get_returns"].(map[string]interface{})["returns"].([]ReturnEntry)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Gain.IsZero(), "no quote means flat return")
}

func TestExecuteCompareNeedsTwoTickers(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 150, "MSFT": 180, "JNJ": 55}}
	exec := newTestExecutor(prices)

	result := exec.Execute(context.Background(), "client-1", fixtureHoldings(), []portfolio.FunctionCall{
		{Name: portfolio.FuncComparePerformance, Arguments: map[string]interface{}{"entities": []interface{}{"AAPL"}}},
	})

	entry, ok := result.Results["compare_performance"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, entry["error"], "two tickers")
}

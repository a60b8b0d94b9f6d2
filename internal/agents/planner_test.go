package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/adapters/ai"
	"hermes/internal/domain/portfolio"
)

func classification(intent Intent, entities ...string) ClassificationResult {
	if entities == nil {
		entities = []string{}
	}
	return ClassificationResult{Intent: intent, Entities: entities, Confidence: intentConfidence[intent]}
}

func TestRoutingTablePerIntent(t *testing.T) {
	tests := []struct {
		intent Intent
		agents []string
	}{
		{IntentPortfolio, []string{PortfolioAgent, CalculatorTool}},
		{IntentMarket, []string{MarketAgent}},
		{IntentHybrid, []string{MarketAgent, PortfolioAgent, CalculatorTool}},
		{IntentUnknown, []string{}},
	}

	p := NewPlanner(failingSelector())
	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			plan := p.Plan(context.Background(), classification(tt.intent), "whatever", "")
			assert.Equal(t, tt.agents, plan.Agents)
		})
	}
}

func TestComparisonBeatsPerformanceInCascade(t *testing.T) {
	p := NewPlanner(failingSelector())

	plan := p.Plan(context.Background(),
		classification(IntentPortfolio, "TSLA", "MSFT"),
		"Compare Tesla and Microsoft performance", "")

	require.Len(t, plan.FunctionCalls, 1)
	call := plan.FunctionCalls[0]
	assert.Equal(t, portfolio.FuncComparePerformance, call.Name)
	assert.Equal(t, []interface{}{"TSLA", "MSFT"}, call.Arguments["entities"])
}

func TestCascadePriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		entities []string
		want     portfolio.FunctionName
		wantArgs map[string]interface{}
	}{
		{
			name:     "single entity comparison falls through to performance",
			query:    "is Tesla doing better than last year",
			entities: []string{"TSLA"},
			want:     portfolio.FuncGetReturns,
		},
		{
			name:  "holdings pattern",
			query: "what do I own",
			want:  portfolio.FuncGetHoldings,
		},
		{
			name:     "sector allocation",
			query:    "show my allocation by sector",
			want:     portfolio.FuncGetAllocation,
			wantArgs: map[string]interface{}{"type": "sector"},
		},
		{
			name:     "plain allocation defaults to asset class",
			query:    "show my allocation",
			want:     portfolio.FuncGetAllocation,
			wantArgs: map[string]interface{}{"type": "asset_class"},
		},
		{
			name:     "entities with no pattern default to returns",
			query:    "tell me about Tesla",
			entities: []string{"TSLA"},
			want:     portfolio.FuncGetReturns,
		},
	}

	p := NewPlanner(failingSelector())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := p.Plan(context.Background(),
				classification(IntentPortfolio, tt.entities...), tt.query, "")

			require.Len(t, plan.FunctionCalls, 1)
			assert.Equal(t, tt.want, plan.FunctionCalls[0].Name)
			if tt.wantArgs != nil {
				assert.Equal(t, tt.wantArgs, plan.FunctionCalls[0].Arguments)
			}
		})
	}
}

func TestNoFunctionSentinelStaysOutOfPlan(t *testing.T) {
	p := NewPlanner(failingSelector())

	plan := p.Plan(context.Background(), classification(IntentPortfolio),
		"hello there", "")

	assert.NotNil(t, plan.FunctionCalls)
	assert.Empty(t, plan.FunctionCalls, "nothing matched, nothing planned")
}

func TestMarketIntentSkipsFunctionSelection(t *testing.T) {
	llm := &fakeLLM{}
	p := NewPlanner(llm)

	plan := p.Plan(context.Background(), classification(IntentMarket, "TSLA"),
		"any news on Tesla", "")

	assert.Zero(t, llm.selectCalls)
	assert.Empty(t, plan.FunctionCalls)
}

func TestLLMSelectionIsPreferredOverCascade(t *testing.T) {
	llm := &fakeLLM{selectResult: &ai.FunctionCallResult{
		Status: ai.StatusSuccess,
		Calls: []ai.FunctionCall{{
			Name:      "get_best_performers",
			Arguments: map[string]interface{}{"limit": float64(5)},
		}},
	}}
	p := NewPlanner(llm)

	plan := p.Plan(context.Background(), classification(IntentPortfolio),
		"what do I own", "")

	require.Len(t, plan.FunctionCalls, 1)
	assert.Equal(t, portfolio.FuncGetBestPerformers, plan.FunctionCalls[0].Name)
}

func TestNoFunctionCallStatusFallsBackToCascade(t *testing.T) {
	llm := &fakeLLM{selectResult: &ai.FunctionCallResult{Status: ai.StatusNoFunctionCall}}
	p := NewPlanner(llm)

	plan := p.Plan(context.Background(), classification(IntentPortfolio),
		"what are my holdings", "")

	require.Len(t, plan.FunctionCalls, 1)
	assert.Equal(t, portfolio.FuncGetHoldings, plan.FunctionCalls[0].Name)
}

func TestUnknownFunctionNamePassesThroughToExecutor(t *testing.T) {
	llm := &fakeLLM{selectResult: &ai.FunctionCallResult{
		Status: ai.StatusSuccess,
		Calls:  []ai.FunctionCall{{Name: "made_up_function"}},
	}}
	p := NewPlanner(llm)

	plan := p.Plan(context.Background(), classification(IntentPortfolio),
		"what do I own", "")

	require.Len(t, plan.FunctionCalls, 1)
	assert.Equal(t, portfolio.FunctionName("made_up_function"), plan.FunctionCalls[0].Name)
	assert.NotNil(t, plan.FunctionCalls[0].Arguments)
}

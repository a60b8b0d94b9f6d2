package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fallbackThreshold = 0.7

func TestRulePassIsDeterministic(t *testing.T) {
	c := NewClassifier(&fakeLLM{}, nil, fallbackThreshold)

	first := c.ruleClassify(context.Background(), "How is my portfolio doing?", testSymbolMap())
	for i := 0; i < 5; i++ {
		again := c.ruleClassify(context.Background(), "How is my portfolio doing?", testSymbolMap())
		assert.Equal(t, first, again)
	}
	assert.Equal(t, IntentPortfolio, first.Intent)
	assert.Equal(t, 0.95, first.Confidence)
}

func TestRuleIntentTable(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		intent     Intent
		confidence float64
	}{
		{"portfolio keywords", "show my holdings", IntentPortfolio, 0.95},
		{"market keywords", "any news on the deal", IntentMarket, 0.85},
		{"both keyword sets", "how does the news impact my portfolio", IntentHybrid, 0.9},
		{"no keywords", "blah blah blah", IntentUnknown, 0.5},
	}

	c := NewClassifier(&fakeLLM{}, nil, fallbackThreshold)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.ruleClassify(context.Background(), tt.query, testSymbolMap())
			assert.Equal(t, tt.intent, result.Intent)
			assert.Equal(t, tt.confidence, result.Confidence)
		})
	}
}

func TestConfidentMarketQuerySkipsLLM(t *testing.T) {
	llm := &fakeLLM{}
	c := NewClassifier(llm, nil, fallbackThreshold)

	result := c.Classify(context.Background(), "any market news today?", "", testSymbolMap())

	assert.Equal(t, IntentMarket, result.Intent)
	assert.Equal(t, 0.85, result.Confidence)
	assert.Zero(t, llm.jsonCalls, "0.85 >= 0.7 must not escalate")
}

func TestUnknownIntentTriggersLLM(t *testing.T) {
	llm := &fakeLLM{jsonPayload: `{"intent": "market", "entities": ["TSLA"], "confidence": 0.8}`}
	c := NewClassifier(llm, nil, fallbackThreshold)

	result := c.Classify(context.Background(), "blah blah blah", "", testSymbolMap())

	assert.Equal(t, 1, llm.jsonCalls)
	assert.Equal(t, IntentMarket, result.Intent)
	assert.Equal(t, []string{"TSLA"}, result.Entities)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestLLMUnknownKeepsRuleResult(t *testing.T) {
	llm := &fakeLLM{jsonPayload: `{"intent": "unknown", "entities": [], "confidence": 0.9}`}
	c := NewClassifier(llm, nil, fallbackThreshold)

	result := c.Classify(context.Background(), "blah blah blah", "", testSymbolMap())

	assert.Equal(t, 1, llm.jsonCalls)
	assert.Equal(t, IntentUnknown, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestLLMGarbledKeepsRuleResult(t *testing.T) {
	llm := &fakeLLM{jsonPayload: `not json at all`}
	c := NewClassifier(llm, nil, fallbackThreshold)

	result := c.Classify(context.Background(), "blah blah blah", "", testSymbolMap())

	assert.Equal(t, IntentUnknown, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Empty(t, result.Entities)
}

func TestEntityExtractionFromTickerAndAlias(t *testing.T) {
	c := NewClassifier(&fakeLLM{}, nil, fallbackThreshold)

	result := c.ruleClassify(context.Background(), "Compare TSLA and microsoft returns", testSymbolMap())

	assert.ElementsMatch(t, []string{"TSLA", "MSFT"}, result.Entities)
}

func TestAllCapsTokenOutsidePortfolioIsDropped(t *testing.T) {
	c := NewClassifier(&fakeLLM{}, nil, fallbackThreshold)

	result := c.ruleClassify(context.Background(), "What is my return on NVDA?", testSymbolMap())

	assert.Empty(t, result.Entities)
}

func TestFailedNormalizationForcesLowConfidence(t *testing.T) {
	c := NewClassifier(&fakeLLM{}, nil, fallbackThreshold)

	// NVDA is detected by the ticker regex shape but resolves to nothing,
	// so even a confident portfolio match drops to 0.5.
	ner := stubNER{mentions: []string{"Nvidia"}}
	cWithNER := NewClassifier(&fakeLLM{}, ner, fallbackThreshold)

	result := cWithNER.ruleClassify(context.Background(), "what is my return on Nvidia", testSymbolMap())
	require.Empty(t, result.Entities)
	assert.Equal(t, IntentPortfolio, result.Intent)
	assert.Equal(t, 0.5, result.Confidence)

	// Without raw detections the table confidence stands.
	clean := c.ruleClassify(context.Background(), "what is my total return", testSymbolMap())
	assert.Equal(t, 0.95, clean.Confidence)
}

func TestNERDetectionsAreNormalized(t *testing.T) {
	ner := stubNER{mentions: []string{"Tesla Inc"}}
	c := NewClassifier(&fakeLLM{}, ner, fallbackThreshold)

	result := c.ruleClassify(context.Background(), "what is my gain there", testSymbolMap())

	assert.Equal(t, []string{"TSLA"}, result.Entities)
}

func TestHoldingsScenario(t *testing.T) {
	llm := &fakeLLM{}
	c := NewClassifier(llm, nil, fallbackThreshold)

	result := c.Classify(context.Background(), "What are my holdings?", "", testSymbolMap())

	assert.Equal(t, IntentPortfolio, result.Intent)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Empty(t, result.Entities)
	assert.Zero(t, llm.jsonCalls, "no fallback for a confident match")
}

type stubNER struct {
	mentions []string
}

func (s stubNER) Extract(context.Context, string, []string) ([]string, error) {
	return s.mentions, nil
}

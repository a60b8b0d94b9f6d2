package agents

import (
	"context"

	"hermes/internal/adapters/ai"
	"hermes/internal/tools/calculator"
	"hermes/internal/tools/marketdata"
	"hermes/pkg/logger"
)

const fallbackResponse = "I'm sorry, I couldn't put together an answer for that right now. Please try rephrasing your question."

const unknownIntentResponse = "I'm not sure how to help with that. I can answer questions about your portfolio holdings, returns and allocation, or about market news and filings for the companies you hold."

// ResponseGenerator turns structured agent results into prose. Generate
// never fails; a broken LLM call yields an apologetic fallback string.
type ResponseGenerator struct {
	llm ai.Client
	log *logger.Logger
}

// NewResponseGenerator creates a response generator.
func NewResponseGenerator(llm ai.Client) *ResponseGenerator {
	return &ResponseGenerator{
		llm: llm,
		log: logger.Get().With("component", "response_generator"),
	}
}

// Generate writes the final natural-language answer. Market data is
// unwrapped only when the market agent succeeded; error payloads are
// passed through so the model can explain them.
func (r *ResponseGenerator) Generate(ctx context.Context, query string, portfolioResult *calculator.Result, marketResult *marketdata.Result) string {
	var portfolioPayload interface{}
	if portfolioResult != nil {
		if portfolioResult.Status == calculator.StatusSuccess {
			portfolioPayload = portfolioResult.Results
		} else {
			portfolioPayload = map[string]interface{}{"error": portfolioResult.Message}
		}
	}

	var marketPayload interface{}
	if marketResult != nil {
		if marketResult.Status == marketdata.StatusSuccess {
			marketPayload = marketResult.MarketData
		} else {
			marketPayload = map[string]interface{}{"error": marketResult.Message}
		}
	}

	text, err := r.llm.GenerateText(ctx, responsePrompt(query, portfolioPayload, marketPayload))
	if err != nil {
		r.log.Warnw("response generation failed, serving fallback", "error", err)
		return fallbackResponse
	}
	return text
}

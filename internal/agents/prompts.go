package agents

import (
	"encoding/json"
	"fmt"
	"strings"
)

const classificationPromptTmpl = `You are an intent classifier for a brokerage portfolio assistant.

Classify the user's query into exactly one intent:
- "portfolio": questions about the client's own holdings, returns, allocation or performance
- "market": questions about news, filings, deals or market events
- "hybrid": questions needing both portfolio data and market context
- "unknown": anything else

The client's holdings (ticker: known names):
%s

Conversation so far:
%s

User query: %s

Respond with ONLY a JSON object, no prose:
{"intent": "portfolio|market|hybrid|unknown", "entities": ["TICKER", ...], "confidence": 0.0}

"entities" must contain only tickers from the holdings above that the query refers to.`

const functionSelectionInstructionTmpl = `You select portfolio analysis functions for a brokerage assistant.
Pick the function (or functions) that best answer the user's query, filling
arguments from the query and the detected tickers.

Detected tickers: %s

Conversation so far:
%s

If no function fits, select nothing.`

const responsePromptTmpl = `You are a brokerage portfolio assistant. Write a concise, factual answer
to the client's question using ONLY the data below. Use plain language,
mention concrete numbers where available, and do not invent data.

Client question: %s

Portfolio analysis results (JSON):
%s

Market context (JSON):
%s

Answer:`

const validationPromptTmpl = `You are a quality reviewer for a multi-agent pipeline that answers
brokerage portfolio questions. Review the executed steps below and judge
whether the pipeline produced a coherent, complete result for the query.

Original query: %s

Executed steps, in order (JSON):
%s

Rules:
- If every step's output is coherent and consistent with its input, the run passes.
- If a step produced an incoherent, empty or contradictory result, the run fails;
  name the FIRST such agent.

Respond with ONLY a JSON object, no prose:
{"validation_result": "pass|fail", "failed_agent": "<agent name or null>", "reason": "<short reason or null>"}`

func renderSymbolMap(symbolMap map[string][]string) string {
	if len(symbolMap) == 0 {
		return "(no holdings loaded)"
	}
	var b strings.Builder
	for ticker, aliases := range symbolMap {
		fmt.Fprintf(&b, "- %s: %s\n", ticker, strings.Join(aliases, ", "))
	}
	return b.String()
}

func renderHistory(history string) string {
	if history == "" {
		return "(start of conversation)"
	}
	return history
}

func classificationPrompt(query, history string, symbolMap map[string][]string) string {
	return fmt.Sprintf(classificationPromptTmpl,
		renderSymbolMap(symbolMap), renderHistory(history), query)
}

func functionSelectionInstruction(entities []string, history string) string {
	tickers := "(none detected)"
	if len(entities) > 0 {
		tickers = strings.Join(entities, ", ")
	}
	return fmt.Sprintf(functionSelectionInstructionTmpl, tickers, renderHistory(history))
}

func responsePrompt(query string, portfolioResults, marketData interface{}) string {
	return fmt.Sprintf(responsePromptTmpl,
		query, toJSON(portfolioResults), toJSON(marketData))
}

func validationPrompt(query string, steps interface{}) string {
	return fmt.Sprintf(validationPromptTmpl, query, toJSON(steps))
}

func toJSON(v interface{}) string {
	if v == nil {
		return "null"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

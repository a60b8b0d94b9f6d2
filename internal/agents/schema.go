package agents

import (
	"hermes/internal/adapters/ai"
)

func entitiesParam(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       map[string]interface{}{"type": "string"},
	}
}

func limitParam() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "How many positions to return. Defaults to 3.",
	}
}

// portfolioFunctionSchema declares the eight portfolio functions the model
// may select from.
var portfolioFunctionSchema = []ai.FunctionDeclaration{
	{
		Name:        "get_returns",
		Description: "Get absolute gain and percentage return for specific tickers, or the whole portfolio when no tickers are given.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"entities": entitiesParam("Ticker symbols to compute returns for. Empty means all holdings."),
			},
		},
	},
	{
		Name:        "compare_performance",
		Description: "Compare percentage returns across two or more tickers.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"entities": entitiesParam("Two or more ticker symbols to compare."),
			},
			"required": []string{"entities"},
		},
	},
	{
		Name:        "get_best_performers",
		Description: "Get the holdings with the highest percentage return.",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"limit": limitParam()},
		},
	},
	{
		Name:        "get_worst_performers",
		Description: "Get the holdings with the lowest percentage return.",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"limit": limitParam()},
		},
	},
	{
		Name:        "get_weight_in_portfolio",
		Description: "Get one ticker's share of total portfolio value, as a percentage.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"ticker": map[string]interface{}{
					"type":        "string",
					"description": "The ticker symbol to weigh.",
				},
			},
			"required": []string{"ticker"},
		},
	},
	{
		Name:        "get_allocation",
		Description: "Get percentage allocation of the portfolio grouped by sector or asset class.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Grouping dimension: \"sector\" or \"asset_class\".",
				},
			},
		},
	},
	{
		Name:        "get_holdings",
		Description: "List the tickers the client holds, optionally with full position details.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"include_details": map[string]interface{}{
					"type":        "boolean",
					"description": "Return full position rows instead of just tickers.",
				},
			},
		},
	},
	{
		Name:        "get_market_cap_allocation",
		Description: "Get percentage allocation of the portfolio by market-cap tier.",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
}

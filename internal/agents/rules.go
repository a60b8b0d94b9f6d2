package agents

import (
	"regexp"
	"strings"

	"hermes/internal/domain/portfolio"
)

// Keyword sets for the deterministic classification pass. Membership, not
// match count, decides the intent.
var (
	portfolioKeywords = []string{
		"portfolio", "holding", "holdings", "own", "performance", "return",
		"gain", "allocation", "value", "profit", "loss", "perform",
	}
	marketKeywords = []string{
		"news", "impact", "deal", "filing", "event", "announcement", "market",
	}
)

// intentConfidence is the fixed per-intent confidence table. Confidence is
// looked up, never computed from match strength.
var intentConfidence = map[Intent]float64{
	IntentHybrid:    0.9,
	IntentPortfolio: 0.95,
	IntentMarket:    0.85,
	IntentUnknown:   0.5,
}

// routingTable maps an intent to the agents that serve it. The plan's
// agent list is always exactly one of these entries.
var routingTable = map[Intent][]string{
	IntentPortfolio: {PortfolioAgent, CalculatorTool},
	IntentMarket:    {MarketAgent},
	IntentHybrid:    {MarketAgent, PortfolioAgent, CalculatorTool},
	IntentUnknown:   {},
}

// Patterns for the planner's rule cascade and entity detection.
var (
	comparisonPattern  = regexp.MustCompile(`(compare|better|vs|versus)`)
	performancePattern = regexp.MustCompile(`(return|performance|gain|loss|doing)`)
	holdingsPattern    = regexp.MustCompile(`(holding|own|position|stock|portfolio)`)
	tickerPattern      = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
)

func matchesAny(query string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

// ruleIntent runs the keyword pass over a lower-cased query.
func ruleIntent(lowered string) Intent {
	hasPortfolio := matchesAny(lowered, portfolioKeywords)
	hasMarket := matchesAny(lowered, marketKeywords)

	switch {
	case hasPortfolio && hasMarket:
		return IntentHybrid
	case hasPortfolio:
		return IntentPortfolio
	case hasMarket:
		return IntentMarket
	default:
		return IntentUnknown
	}
}

// fallbackFunctionCall is the planner's deterministic rule cascade.
// Priority is a deliberate policy: comparison beats performance beats
// holdings beats allocation beats generic returns. A nil return means "no
// function", which is never added to the plan.
func fallbackFunctionCall(query string, entities []string) *portfolio.FunctionCall {
	lowered := strings.ToLower(query)

	entityArgs := make([]interface{}, 0, len(entities))
	for _, e := range entities {
		entityArgs = append(entityArgs, e)
	}

	switch {
	case len(entities) >= 2 && comparisonPattern.MatchString(lowered):
		return &portfolio.FunctionCall{
			Name:      portfolio.FuncComparePerformance,
			Arguments: map[string]interface{}{"entities": entityArgs},
		}
	case performancePattern.MatchString(lowered):
		return &portfolio.FunctionCall{
			Name:      portfolio.FuncGetReturns,
			Arguments: map[string]interface{}{"entities": entityArgs},
		}
	case holdingsPattern.MatchString(lowered):
		return &portfolio.FunctionCall{
			Name:      portfolio.FuncGetHoldings,
			Arguments: map[string]interface{}{},
		}
	case strings.Contains(lowered, "allocation") && strings.Contains(lowered, "sector"):
		return &portfolio.FunctionCall{
			Name:      portfolio.FuncGetAllocation,
			Arguments: map[string]interface{}{"type": portfolio.AllocationBySector},
		}
	case strings.Contains(lowered, "allocation"):
		return &portfolio.FunctionCall{
			Name:      portfolio.FuncGetAllocation,
			Arguments: map[string]interface{}{"type": portfolio.AllocationByAssetClass},
		}
	case len(entities) > 0:
		return &portfolio.FunctionCall{
			Name:      portfolio.FuncGetReturns,
			Arguments: map[string]interface{}{"entities": entityArgs},
		}
	default:
		return nil
	}
}

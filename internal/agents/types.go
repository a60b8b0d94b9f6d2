package agents

import (
	"hermes/internal/domain/portfolio"
)

// Intent buckets a query by what data it needs.
type Intent string

const (
	IntentPortfolio Intent = "portfolio"
	IntentMarket    Intent = "market"
	IntentHybrid    Intent = "hybrid"
	IntentUnknown   Intent = "unknown"
)

// Agent names as they appear in workflow logs and execution plans.
const (
	QueryClassificationAgent = "QueryClassificationAgent"
	PlannerAgent             = "PlannerAgent"
	MarketAgent              = "MarketAgent"
	PortfolioAgent           = "PortfolioAgent"
	ResponseGeneratorAgent   = "ResponseGeneratorAgent"
	CalculatorTool           = "CalculatorTool"
)

// ClassificationResult is the classifier's verdict for one query. It is
// produced fresh per query and never mutated after return.
type ClassificationResult struct {
	Intent     Intent   `json:"intent"`
	Entities   []string `json:"entities"`
	Confidence float64  `json:"confidence"`
}

// ExecutionPlan says which agents run and which portfolio functions they
// call. Agents is fully determined by Intent via the routing table;
// FunctionCalls is populated only for portfolio and hybrid intents and is
// empty, not missing, when nothing could be selected.
type ExecutionPlan struct {
	Intent        Intent                   `json:"intent"`
	Entities      []string                 `json:"entities"`
	Confidence    float64                  `json:"confidence"`
	Agents        []string                 `json:"agents"`
	FunctionCalls []portfolio.FunctionCall `json:"function_calls"`
	Error         string                   `json:"error,omitempty"`
}

// HasAgent reports whether the plan routes to the named agent.
func (p *ExecutionPlan) HasAgent(name string) bool {
	for _, a := range p.Agents {
		if a == name {
			return true
		}
	}
	return false
}

// Validation verdicts.
const (
	ValidationPass  = "pass"
	ValidationFail  = "fail"
	ValidationError = "error"
)

// ValidationResult is the validator's post-hoc judgment of a query's
// workflow. Error marks an internal validator fault, distinct from a
// judged business-logic failure.
type ValidationResult struct {
	Result      string `json:"validation_result"`
	FailedAgent string `json:"failed_agent,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

package agents

import (
	"context"

	"hermes/internal/adapters/ai"
	"hermes/internal/domain/portfolio"
	"hermes/internal/metrics"
	"hermes/pkg/logger"
)

// Planner turns a classification into an execution plan. Agent routing is
// a fixed table keyed by intent; function selection tries the LLM first
// and degrades to the deterministic rule cascade. Plan never fails: a
// broken selection yields a plan with empty function calls, never an
// error to the caller.
type Planner struct {
	llm ai.Client
	log *logger.Logger
}

// NewPlanner creates a planner.
func NewPlanner(llm ai.Client) *Planner {
	return &Planner{
		llm: llm,
		log: logger.Get().With("component", "planner"),
	}
}

// Plan builds the execution plan for a classified query.
func (p *Planner) Plan(ctx context.Context, classification ClassificationResult, query, history string) ExecutionPlan {
	routed := routingTable[classification.Intent]
	agents := make([]string, len(routed))
	copy(agents, routed)

	plan := ExecutionPlan{
		Intent:        classification.Intent,
		Entities:      classification.Entities,
		Confidence:    classification.Confidence,
		Agents:        agents,
		FunctionCalls: []portfolio.FunctionCall{},
	}

	if classification.Intent != IntentPortfolio && classification.Intent != IntentHybrid {
		return plan
	}

	calls, ok := p.selectFunctions(ctx, query, classification.Entities, history)
	if ok && len(calls) > 0 {
		plan.FunctionCalls = calls
		return plan
	}

	// LLM selection failed or chose nothing; fall back to the rule
	// cascade. A nil cascade result leaves FunctionCalls empty, never nil.
	metrics.IncLLMFallback("planner")
	if call := fallbackFunctionCall(query, classification.Entities); call != nil {
		plan.FunctionCalls = append(plan.FunctionCalls, *call)
	}
	return plan
}

// selectFunctions asks the model to pick portfolio functions. Unknown
// function names pass through untouched; the executor tags them as errors
// rather than the planner second-guessing the model.
func (p *Planner) selectFunctions(ctx context.Context, query string, entities []string, history string) ([]portfolio.FunctionCall, bool) {
	result, err := p.llm.SelectFunction(ctx, ai.FunctionCallRequest{
		Query:        query,
		Instruction:  functionSelectionInstruction(entities, history),
		Declarations: portfolioFunctionSchema,
	})
	if err != nil {
		p.log.Warnw("function selection failed, using rule cascade", "error", err)
		return nil, false
	}

	switch result.Status {
	case ai.StatusSuccess:
	case ai.StatusNoFunctionCall:
		return nil, false
	default:
		p.log.Warnw("function selection errored, using rule cascade", "message", result.Message)
		return nil, false
	}

	calls := make([]portfolio.FunctionCall, 0, len(result.Calls))
	for _, c := range result.Calls {
		if c.Name == "" {
			continue
		}
		args := c.Arguments
		if args == nil {
			args = map[string]interface{}{}
		}
		calls = append(calls, portfolio.FunctionCall{
			Name:      portfolio.FunctionName(c.Name),
			Arguments: args,
		})
	}
	return calls, len(calls) > 0
}

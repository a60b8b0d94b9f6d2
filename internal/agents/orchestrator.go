package agents

import (
	"context"
	"time"

	"hermes/internal/domain/portfolio"
	"hermes/internal/domain/session"
	"hermes/internal/metrics"
	"hermes/internal/tools/calculator"
	"hermes/internal/tools/marketdata"
	"hermes/pkg/logger"
)

// stateName identifies one node of the query state machine.
type stateName string

const (
	stateClassify  stateName = "classify"
	statePlan      stateName = "plan"
	stateMarket    stateName = "market"
	statePortfolio stateName = "portfolio"
	stateGenerate  stateName = "generate_response"
	stateValidate  stateName = "validate"
	stateFinalize  stateName = "finalize"
)

// State is the shared object threaded through the state machine. Each
// stage mutates only its own fields.
type State struct {
	Query     string
	ClientID  string
	SessionID string
	Session   *session.Session

	Classification  ClassificationResult
	Plan            ExecutionPlan
	MarketResult    *marketdata.Result
	PortfolioResult *calculator.Result
	FinalResponse   string
	Workflow        *WorkflowLog
	Validation      ValidationResult
}

func (s *State) sessionHoldings() []portfolio.Holding {
	if s.Session == nil {
		return nil
	}
	return s.Session.Portfolio
}

// logStep lazily initializes the workflow log and appends one record.
func (s *State) logStep(agent string, input, output interface{}) {
	if s.Workflow == nil {
		s.Workflow = NewWorkflowLog(s.Query)
	}
	s.Workflow.Append(agent, input, output)
}

// Orchestrator sequences classify → plan → {market, portfolio} →
// generate_response → validate → finalize for one query. Transitions are
// computed from the execution plan's agent list, never from the
// classification directly.
type Orchestrator struct {
	classifier *Classifier
	planner    *Planner
	market     MarketExecutor
	portfolio  PortfolioExecutor
	responder  *ResponseGenerator
	validator  *Validator
	log        *logger.Logger
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(classifier *Classifier, planner *Planner, market MarketExecutor, portfolio PortfolioExecutor, responder *ResponseGenerator, validator *Validator) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		planner:    planner,
		market:     market,
		portfolio:  portfolio,
		responder:  responder,
		validator:  validator,
		log:        logger.Get().With("component", "orchestrator"),
	}
}

// Run executes the state machine to completion. Every stage is a total
// function, so Run always reaches finalize with a usable response.
func (o *Orchestrator) Run(ctx context.Context, state *State) *State {
	started := time.Now()

	current := stateClassify
	for current != stateFinalize {
		next := o.step(ctx, current, state)
		o.log.Debugw("state transition",
			"client_id", state.ClientID, "from", current, "to", next)
		current = next
	}

	o.finalize(state)
	metrics.RecordQuery(string(state.Classification.Intent), time.Since(started), nil)
	return state
}

func (o *Orchestrator) step(ctx context.Context, current stateName, state *State) stateName {
	started := time.Now()
	defer func() {
		metrics.RecordAgentStep(string(current), time.Since(started))
	}()

	switch current {
	case stateClassify:
		return o.classify(ctx, state)
	case statePlan:
		return o.plan(ctx, state)
	case stateMarket:
		return o.runMarket(ctx, state)
	case statePortfolio:
		return o.runPortfolio(ctx, state)
	case stateGenerate:
		return o.generate(ctx, state)
	case stateValidate:
		return o.validate(ctx, state)
	default:
		return stateFinalize
	}
}

func (o *Orchestrator) classify(ctx context.Context, state *State) stateName {
	history := ""
	symbolMap := map[string][]string{}
	if state.Session != nil {
		history = state.Session.HistoryString()
		symbolMap = state.Session.SymbolNameMap
	}

	state.Classification = o.classifier.Classify(ctx, state.Query, history, symbolMap)

	state.logStep(QueryClassificationAgent, state.Query, map[string]interface{}{
		"intent":   state.Classification.Intent,
		"entities": state.Classification.Entities,
	})
	return statePlan
}

func (o *Orchestrator) plan(ctx context.Context, state *State) stateName {
	history := ""
	if state.Session != nil {
		history = state.Session.HistoryString()
	}

	state.Plan = o.planner.Plan(ctx, state.Classification, state.Query, history)
	state.logStep(PlannerAgent, state.Classification, state.Plan)

	hasMarket := state.Plan.HasAgent(MarketAgent)
	hasPortfolio := state.Plan.HasAgent(PortfolioAgent)
	switch {
	case hasMarket:
		return stateMarket
	case hasPortfolio:
		return statePortfolio
	default:
		// No agents to run: terminal, skipping response generation.
		return stateFinalize
	}
}

func (o *Orchestrator) runMarket(ctx context.Context, state *State) stateName {
	result := o.market.Fetch(ctx, state.Plan.Entities)
	state.MarketResult = &result

	state.logStep(MarketAgent, state.Plan.Entities, result)

	if state.Plan.HasAgent(PortfolioAgent) {
		return statePortfolio
	}
	return stateGenerate
}

func (o *Orchestrator) runPortfolio(ctx context.Context, state *State) stateName {
	result := o.portfolio.Execute(ctx, state.ClientID, state.sessionHoldings(), state.Plan.FunctionCalls)
	state.PortfolioResult = &result

	state.logStep(PortfolioAgent, map[string]interface{}{
		"client_id":      state.ClientID,
		"function_calls": state.Plan.FunctionCalls,
	}, result)
	return stateGenerate
}

func (o *Orchestrator) generate(ctx context.Context, state *State) stateName {
	state.FinalResponse = o.responder.Generate(ctx, state.Query, state.PortfolioResult, state.MarketResult)

	state.logStep(ResponseGeneratorAgent, map[string]interface{}{
		"query":            state.Query,
		"portfolio_result": state.PortfolioResult,
		"market_result":    state.MarketResult,
	}, state.FinalResponse)
	return stateValidate
}

func (o *Orchestrator) validate(ctx context.Context, state *State) stateName {
	state.Validation = o.validator.Run(ctx, state.Query, state.Workflow)

	if state.Validation.Result == ValidationFail {
		o.log.Warnw("validation flagged the run",
			"client_id", state.ClientID,
			"failed_agent", state.Validation.FailedAgent,
			"reason", state.Validation.Reason)
	}
	return stateFinalize
}

// finalize guarantees a user-facing response string even on the paths
// that skipped response generation.
func (o *Orchestrator) finalize(state *State) {
	if state.Validation.Result == "" {
		state.Validation = ValidationResult{Result: ValidationPass}
	}
	if state.FinalResponse == "" {
		state.FinalResponse = unknownIntentResponse
	}
}

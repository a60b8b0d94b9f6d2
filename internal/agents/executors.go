package agents

import (
	"context"

	"hermes/internal/domain/portfolio"
	"hermes/internal/tools/calculator"
	"hermes/internal/tools/marketdata"
)

// PortfolioExecutor runs the plan's portfolio function calls against a
// client's holdings.
type PortfolioExecutor interface {
	Execute(ctx context.Context, clientID string, holdings []portfolio.Holding, calls []portfolio.FunctionCall) calculator.Result
}

// MarketExecutor assembles market snapshots for the plan's entities.
type MarketExecutor interface {
	Fetch(ctx context.Context, entities []string) marketdata.Result
}

package calculator

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/market"
	"hermes/internal/domain/portfolio"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const defaultPerformerLimit = 3

// Result is the portfolio agent's payload: one entry per executed
// function, keyed by function name. Failures are recorded per entry so
// one bad call never discards the others.
type Result struct {
	Status       string                 `json:"status"`
	ClientID     string                 `json:"client_id"`
	NumFunctions int                    `json:"num_functions"`
	Results      map[string]interface{} `json:"results"`
	Message      string                 `json:"message,omitempty"`
}

// StatusSuccess and StatusError are the two terminal states of an
// execution run.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type handlerFunc func(c *Calculator, args map[string]interface{}) (interface{}, error)

// dispatch is the closed table of callable portfolio functions. A name
// outside this table is rejected, never resolved dynamically.
var dispatch = map[portfolio.FunctionName]handlerFunc{
	portfolio.FuncGetReturns: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		return c.Returns(stringSlice(args, "entities")), nil
	},
	portfolio.FuncComparePerformance: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		entities := stringSlice(args, "entities")
		if len(entities) < 2 {
			return nil, errors.Newf("compare_performance needs at least two tickers, got %d", len(entities))
		}
		return c.ComparePerformance(entities), nil
	},
	portfolio.FuncGetBestPerformers: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		return c.BestPerformers(intArg(args, "limit", defaultPerformerLimit)), nil
	},
	portfolio.FuncGetWorstPerformers: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		return c.WorstPerformers(intArg(args, "limit", defaultPerformerLimit)), nil
	},
	portfolio.FuncGetWeightInPortfolio: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		ticker := stringArg(args, "ticker")
		if ticker == "" {
			if entities := stringSlice(args, "entities"); len(entities) > 0 {
				ticker = entities[0]
			}
		}
		if ticker == "" {
			return nil, errors.New("get_weight_in_portfolio needs a ticker")
		}
		return c.WeightInPortfolio(ticker), nil
	},
	portfolio.FuncGetAllocation: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		groupBy := stringArg(args, "type")
		if groupBy != portfolio.AllocationBySector && groupBy != portfolio.AllocationByAssetClass {
			groupBy = portfolio.AllocationByAssetClass
		}
		return c.Allocation(groupBy), nil
	},
	portfolio.FuncGetHoldings: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"holdings": c.Holdings(boolArg(args, "include_details"))}, nil
	},
	portfolio.FuncGetMarketCapAllocation: func(c *Calculator, args map[string]interface{}) (interface{}, error) {
		return c.MarketCapAllocation(), nil
	},
}

// Executor runs a plan's portfolio function calls against a client's
// holdings. Prices are fetched once per run and shared by every call.
type Executor struct {
	prices market.PriceSource
	log    *logger.Logger
}

// NewExecutor creates a portfolio function executor.
func NewExecutor(prices market.PriceSource) *Executor {
	return &Executor{
		prices: prices,
		log:    logger.Get().With("component", "portfolio_executor"),
	}
}

// Execute runs every function call in order. It never returns a Go
// error: failures are tagged into the Result so the orchestrator can
// keep moving.
func (e *Executor) Execute(ctx context.Context, clientID string, holdings []portfolio.Holding, calls []portfolio.FunctionCall) Result {
	if len(holdings) == 0 {
		return Result{
			Status:   StatusError,
			ClientID: clientID,
			Results:  map[string]interface{}{},
			Message:  "no holdings found for client",
		}
	}

	// An empty plan degrades to a whole-portfolio returns summary.
	if len(calls) == 0 {
		calls = []portfolio.FunctionCall{{Name: portfolio.FuncGetReturns, Arguments: map[string]interface{}{}}}
	}

	calc := New(holdings, e.fetchPrices(ctx, holdings))

	results := make(map[string]interface{}, len(calls))
	for _, call := range calls {
		handler, ok := dispatch[call.Name]
		if !ok {
			e.log.Warnw("rejected unknown portfolio function", "function", call.Name)
			results[string(call.Name)] = map[string]interface{}{
				"error": fmt.Sprintf("%v: %s", errors.ErrUnknownFunction, call.Name),
			}
			continue
		}

		out, err := handler(calc, call.Arguments)
		if err != nil {
			e.log.Warnw("portfolio function failed", "function", call.Name, "error", err)
			results[string(call.Name)] = map[string]interface{}{"error": err.Error()}
			continue
		}
		results[string(call.Name)] = out
	}

	return Result{
		Status:       StatusSuccess,
		ClientID:     clientID,
		NumFunctions: len(calls),
		Results:      results,
	}
}

func (e *Executor) fetchPrices(ctx context.Context, holdings []portfolio.Holding) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(holdings))
	for _, h := range holdings {
		symbol := strings.ToUpper(h.Symbol)
		if _, ok := prices[symbol]; ok {
			continue
		}

		price, err := e.prices.LatestPrice(ctx, symbol)
		if err != nil {
			e.log.Warnw("price lookup failed, falling back to purchase price",
				"symbol", symbol, "error", err)
			prices[symbol] = h.PurchasePrice
			continue
		}
		prices[symbol] = decimal.NewFromFloat(price)
	}
	return prices
}

func stringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

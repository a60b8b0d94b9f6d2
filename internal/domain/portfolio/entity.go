package portfolio

import (
	"github.com/shopspring/decimal"
)

// Holding represents one equity position in a client's portfolio.
type Holding struct {
	ClientID      string          `db:"client_id" json:"client_id"`
	Symbol        string          `db:"symbol" json:"symbol"`
	SecurityName  string          `db:"security_name" json:"security_name"`
	Sector        string          `db:"sector" json:"sector"`
	AssetClass    string          `db:"asset_class" json:"asset_class"`
	MarketCapTier string          `db:"market_cap_tier" json:"market_cap_tier"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
}

// FunctionName identifies one of the supported portfolio computations.
// The set is closed: dispatch happens through an explicit table, and a
// name outside this set is a typed error, never a reflection miss.
type FunctionName string

const (
	FuncGetReturns             FunctionName = "get_returns"
	FuncComparePerformance     FunctionName = "compare_performance"
	FuncGetBestPerformers      FunctionName = "get_best_performers"
	FuncGetWorstPerformers     FunctionName = "get_worst_performers"
	FuncGetWeightInPortfolio   FunctionName = "get_weight_in_portfolio"
	FuncGetAllocation          FunctionName = "get_allocation"
	FuncGetHoldings            FunctionName = "get_holdings"
	FuncGetMarketCapAllocation FunctionName = "get_market_cap_allocation"

	// FuncNone is the explicit "no function" sentinel produced by the
	// planner's rule cascade; it must never enter an execution plan.
	FuncNone FunctionName = "no_function_call"
)

// SupportedFunctions lists every dispatchable function name.
var SupportedFunctions = []FunctionName{
	FuncGetReturns,
	FuncComparePerformance,
	FuncGetBestPerformers,
	FuncGetWorstPerformers,
	FuncGetWeightInPortfolio,
	FuncGetAllocation,
	FuncGetHoldings,
	FuncGetMarketCapAllocation,
}

// IsSupported reports whether name belongs to the closed function set.
func IsSupported(name FunctionName) bool {
	for _, fn := range SupportedFunctions {
		if fn == name {
			return true
		}
	}
	return false
}

// FunctionCall is a named, argument-bearing request to a portfolio
// computation, as selected by the planner.
type FunctionCall struct {
	Name      FunctionName           `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// AllocationType selects the grouping dimension for get_allocation.
const (
	AllocationBySector     = "sector"
	AllocationByAssetClass = "asset_class"
)

package calculator

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/portfolio"
)

// Calculator is the core math layer. It works over a precomputed price
// cache so each query fetches quotes exactly once.
type Calculator struct {
	holdings []portfolio.Holding
	prices   map[string]decimal.Decimal
}

// New creates a calculator over the client's holdings and a price cache
// keyed by upper-cased ticker.
func New(holdings []portfolio.Holding, prices map[string]decimal.Decimal) *Calculator {
	return &Calculator{holdings: holdings, prices: prices}
}

// ReturnEntry is the per-position result of a returns computation.
type ReturnEntry struct {
	Symbol        string          `json:"symbol"`
	SecurityName  string          `json:"security_name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	Gain          decimal.Decimal `json:"gain"`
	PctReturn     decimal.Decimal `json:"pct_return"`
}

func (c *Calculator) price(symbol string) decimal.Decimal {
	return c.prices[strings.ToUpper(symbol)]
}

func (c *Calculator) filter(tickers []string) []portfolio.Holding {
	if len(tickers) == 0 {
		return c.holdings
	}

	want := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		want[strings.ToUpper(t)] = struct{}{}
	}

	var out []portfolio.Holding
	for _, h := range c.holdings {
		if _, ok := want[strings.ToUpper(h.Symbol)]; ok {
			out = append(out, h)
		}
	}
	return out
}

func (c *Calculator) returnEntry(h portfolio.Holding) ReturnEntry {
	current := c.price(h.Symbol)
	cost := h.PurchasePrice.Mul(h.Quantity)
	gain := current.Sub(h.PurchasePrice).Mul(h.Quantity)

	pct := decimal.Zero
	if !cost.IsZero() {
		pct = gain.Div(cost).Mul(decimal.NewFromInt(100))
	}

	return ReturnEntry{
		Symbol:        h.Symbol,
		SecurityName:  h.SecurityName,
		PurchasePrice: h.PurchasePrice.Round(2),
		CurrentPrice:  current.Round(2),
		Quantity:      h.Quantity,
		Gain:          gain.Round(2),
		PctReturn:     pct.Round(2),
	}
}

// Returns computes per-position returns for the given tickers, or the
// whole portfolio when tickers is empty.
func (c *Calculator) Returns(tickers []string) map[string]interface{} {
	holdings := c.filter(tickers)
	entries := make([]ReturnEntry, 0, len(holdings))
	for _, h := range holdings {
		entries = append(entries, c.returnEntry(h))
	}
	return map[string]interface{}{"returns": entries}
}

// ComparePerformance compares returns across the given tickers.
func (c *Calculator) ComparePerformance(tickers []string) map[string]interface{} {
	comparison := make(map[string]ReturnEntry)
	for _, h := range c.filter(tickers) {
		comparison[strings.ToUpper(h.Symbol)] = c.returnEntry(h)
	}
	return map[string]interface{}{"comparison": comparison}
}

// BestPerformers returns the top N positions by percentage return.
func (c *Calculator) BestPerformers(limit int) map[string]interface{} {
	return map[string]interface{}{"best_performers": c.rankByReturn(limit, true)}
}

// WorstPerformers returns the bottom N positions by percentage return.
func (c *Calculator) WorstPerformers(limit int) map[string]interface{} {
	return map[string]interface{}{"worst_performers": c.rankByReturn(limit, false)}
}

func (c *Calculator) rankByReturn(limit int, descending bool) []ReturnEntry {
	entries := make([]ReturnEntry, 0, len(c.holdings))
	for _, h := range c.holdings {
		entries = append(entries, c.returnEntry(h))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if descending {
			return entries[i].PctReturn.GreaterThan(entries[j].PctReturn)
		}
		return entries[i].PctReturn.LessThan(entries[j].PctReturn)
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(entries) {
		limit = len(entries)
	}
	return entries[:limit]
}

// Allocation computes percentage allocation grouped by sector or asset
// class, based on current market value.
func (c *Calculator) Allocation(groupBy string) map[string]interface{} {
	key := func(h portfolio.Holding) string {
		switch groupBy {
		case portfolio.AllocationByAssetClass:
			return h.AssetClass
		default:
			return h.Sector
		}
	}

	allocations := c.allocationBy(key)
	return map[string]interface{}{groupBy + "_allocations": allocations}
}

// MarketCapAllocation computes percentage allocation by market-cap tier.
func (c *Calculator) MarketCapAllocation() map[string]interface{} {
	allocations := c.allocationBy(func(h portfolio.Holding) string { return h.MarketCapTier })
	return map[string]interface{}{"market_cap_allocations": allocations}
}

func (c *Calculator) allocationBy(key func(portfolio.Holding) string) map[string]decimal.Decimal {
	values := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, h := range c.holdings {
		value := h.Quantity.Mul(c.price(h.Symbol))
		group := key(h)
		if group == "" {
			group = "Unknown"
		}
		values[group] = values[group].Add(value)
		total = total.Add(value)
	}

	allocations := make(map[string]decimal.Decimal, len(values))
	hundred := decimal.NewFromInt(100)
	for group, value := range values {
		if total.IsZero() {
			allocations[group] = decimal.Zero
			continue
		}
		allocations[group] = value.Div(total).Mul(hundred).Round(2)
	}
	return allocations
}

// WeightInPortfolio computes one ticker's share of total portfolio value.
func (c *Calculator) WeightInPortfolio(ticker string) map[string]interface{} {
	total := decimal.Zero
	for _, h := range c.holdings {
		total = total.Add(h.Quantity.Mul(c.price(h.Symbol)))
	}

	matched := c.filter([]string{ticker})
	if len(matched) == 0 || total.IsZero() {
		return map[string]interface{}{"ticker": ticker, "weight_in_portfolio": decimal.Zero}
	}

	value := matched[0].Quantity.Mul(c.price(ticker))
	weight := value.Div(total).Mul(decimal.NewFromInt(100)).Round(2)

	return map[string]interface{}{"ticker": ticker, "weight_in_portfolio": weight}
}

// Holdings returns the list of held tickers, or full rows when
// includeDetails is set.
func (c *Calculator) Holdings(includeDetails bool) interface{} {
	if includeDetails {
		return c.holdings
	}

	seen := make(map[string]struct{}, len(c.holdings))
	symbols := make([]string, 0, len(c.holdings))
	for _, h := range c.holdings {
		s := strings.ToUpper(h.Symbol)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	return symbols
}

// Symbols returns the distinct tickers in the portfolio.
func (c *Calculator) Symbols() []string {
	symbols, _ := c.Holdings(false).([]string)
	return symbols
}

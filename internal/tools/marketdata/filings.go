package marketdata

import (
	"context"
	"fmt"
	"time"

	"hermes/internal/domain/market"
)

// StaticFilingsSource serves canned filing references. The production
// retrieval backend (vector search over EDGAR documents) plugs in behind
// market.FilingsSource; this keeps the pipeline complete without it.
type StaticFilingsSource struct{}

// NewStaticFilingsSource creates the placeholder filings source.
func NewStaticFilingsSource() *StaticFilingsSource {
	return &StaticFilingsSource{}
}

// Filings returns recent-looking filing stubs for the symbol.
func (s *StaticFilingsSource) Filings(_ context.Context, symbol string) ([]market.Filing, error) {
	now := time.Now().UTC()
	return []market.Filing{
		{
			Type:  "10-Q",
			Title: fmt.Sprintf("%s quarterly report", symbol),
			Date:  now.AddDate(0, -1, 0).Format("2006-01-02"),
		},
		{
			Type:  "8-K",
			Title: fmt.Sprintf("%s material event disclosure", symbol),
			Date:  now.AddDate(0, 0, -14).Format("2006-01-02"),
		},
	}, nil
}

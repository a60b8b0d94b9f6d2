package market

import (
	"context"
	"time"
)

// NewsArticle is one company-news item.
type NewsArticle struct {
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published"`
}

// Filing is one regulatory filing reference.
type Filing struct {
	Type  string `json:"type"` // e.g. 8-K, 10-Q
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Snapshot bundles everything the market agent returns for one symbol.
type Snapshot struct {
	LatestPrice float64       `json:"latest_price"`
	News        []NewsArticle `json:"news"`
	Filings     []Filing      `json:"filings"`
	Timestamp   time.Time     `json:"timestamp"`
	Error       string        `json:"error,omitempty"`
}

// Data maps ticker symbols to their market snapshots.
type Data map[string]Snapshot

// PriceSource fetches latest quotes; prices are never cached, every query
// sees a fresh value.
type PriceSource interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

// NewsSource fetches recent company news for a symbol.
type NewsSource interface {
	CompanyNews(ctx context.Context, symbol string) ([]NewsArticle, error)
}

// FilingsSource fetches filing context for a symbol. The retrieval backend
// (vector search over a filings knowledge base) is an external collaborator;
// this interface is its boundary.
type FilingsSource interface {
	Filings(ctx context.Context, symbol string) ([]Filing, error)
}

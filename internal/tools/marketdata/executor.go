package marketdata

import (
	"context"
	"strings"
	"time"

	"hermes/internal/domain/market"
	"hermes/pkg/logger"
)

// Result is the market agent's payload for one query.
type Result struct {
	Status     string      `json:"status"`
	Entities   []string    `json:"entities"`
	MarketData market.Data `json:"market_data"`
	Message    string      `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// newsCache is the subset of the redis adapter the executor needs. A nil
// cache disables caching entirely.
type newsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Executor assembles per-symbol market snapshots. News is cached with a
// TTL; quotes are always fetched fresh.
type Executor struct {
	prices   market.PriceSource
	news     market.NewsSource
	filings  market.FilingsSource
	cache    newsCache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewExecutor creates a market data executor. cache may be nil.
func NewExecutor(prices market.PriceSource, news market.NewsSource, filings market.FilingsSource, cache newsCache, cacheTTL time.Duration) *Executor {
	return &Executor{
		prices:   prices,
		news:     news,
		filings:  filings,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      logger.Get().With("component", "market_executor"),
	}
}

// Fetch builds a snapshot per entity. Per-symbol failures are recorded in
// the snapshot's Error field; Fetch itself never fails once it has
// entities to work with.
func (e *Executor) Fetch(ctx context.Context, entities []string) Result {
	if len(entities) == 0 {
		return Result{
			Status:     StatusError,
			Entities:   entities,
			MarketData: market.Data{},
			Message:    "no entities to research",
		}
	}

	data := make(market.Data, len(entities))
	for _, entity := range entities {
		symbol := strings.ToUpper(entity)
		data[symbol] = e.snapshot(ctx, symbol)
	}

	return Result{Status: StatusSuccess, Entities: entities, MarketData: data}
}

func (e *Executor) snapshot(ctx context.Context, symbol string) market.Snapshot {
	snap := market.Snapshot{Timestamp: time.Now().UTC()}
	var problems []string

	price, err := e.prices.LatestPrice(ctx, symbol)
	if err != nil {
		e.log.Warnw("quote fetch failed", "symbol", symbol, "error", err)
		problems = append(problems, "quote: "+err.Error())
	} else {
		snap.LatestPrice = price
	}

	news, err := e.companyNews(ctx, symbol)
	if err != nil {
		e.log.Warnw("news fetch failed", "symbol", symbol, "error", err)
		problems = append(problems, "news: "+err.Error())
	} else {
		snap.News = news
	}

	filings, err := e.filings.Filings(ctx, symbol)
	if err != nil {
		e.log.Warnw("filings fetch failed", "symbol", symbol, "error", err)
		problems = append(problems, "filings: "+err.Error())
	} else {
		snap.Filings = filings
	}

	if len(problems) > 0 {
		snap.Error = strings.Join(problems, "; ")
	}
	return snap
}

func (e *Executor) companyNews(ctx context.Context, symbol string) ([]market.NewsArticle, error) {
	cacheKey := "market:news:" + symbol

	if e.cache != nil {
		var cached []market.NewsArticle
		if err := e.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	news, err := e.news.CompanyNews(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, cacheKey, news, e.cacheTTL); err != nil {
			e.log.Warnw("news cache write failed", "symbol", symbol, "error", err)
		}
	}
	return news, nil
}

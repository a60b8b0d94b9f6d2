package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/market"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// FinnhubClient implements market.PriceSource and market.NewsSource over
// the Finnhub REST API. Without an API key it degrades to canned data so
// the pipeline stays usable in development.
type FinnhubClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	newsWindow  time.Duration
	maxArticles int
	log         *logger.Logger
}

// NewFinnhubClient creates a Finnhub market data client.
func NewFinnhubClient(cfg config.MarketDataConfig) *FinnhubClient {
	return &FinnhubClient{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     cfg.FinnhubBaseURL,
		apiKey:      cfg.FinnhubKey,
		newsWindow:  cfg.NewsWindow,
		maxArticles: cfg.MaxArticles,
		log:         logger.Get().With("component", "finnhub"),
	}
}

type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

type finnhubNewsItem struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	Datetime int64  `json:"datetime"`
}

// LatestPrice fetches the current quote for a symbol.
func (f *FinnhubClient) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	if f.apiKey == "" {
		return 0, errors.Wrap(errors.ErrUnavailable, "finnhub api key not configured")
	}

	var quote finnhubQuote
	params := url.Values{"symbol": {symbol}}
	if err := f.get(ctx, "/quote", params, &quote); err != nil {
		return 0, err
	}

	if quote.Current == 0 && quote.PreviousClose == 0 {
		return 0, errors.Wrapf(errors.ErrInvalidSymbol, "no quote for %s", symbol)
	}
	return quote.Current, nil
}

// CompanyNews fetches recent news for a symbol, bounded by the configured
// lookback window and article cap.
func (f *FinnhubClient) CompanyNews(ctx context.Context, symbol string) ([]market.NewsArticle, error) {
	if f.apiKey == "" {
		return f.placeholderNews(symbol), nil
	}

	now := time.Now().UTC()
	params := url.Values{
		"symbol": {symbol},
		"from":   {now.Add(-f.newsWindow).Format("2006-01-02")},
		"to":     {now.Format("2006-01-02")},
	}

	var items []finnhubNewsItem
	if err := f.get(ctx, "/company-news", params, &items); err != nil {
		return nil, err
	}

	if len(items) > f.maxArticles {
		items = items[:f.maxArticles]
	}

	articles := make([]market.NewsArticle, 0, len(items))
	for _, item := range items {
		articles = append(articles, market.NewsArticle{
			Title:     item.Headline,
			Source:    item.Source,
			Summary:   item.Summary,
			Published: time.Unix(item.Datetime, 0).UTC(),
		})
	}
	return articles, nil
}

func (f *FinnhubClient) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	params.Set("token", f.apiKey)
	endpoint := f.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build finnhub request")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.Wrap(errors.ErrRateLimitExceeded, "finnhub rate limit")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(errors.ErrUnavailable, "finnhub returned %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decode finnhub response")
	}
	return nil
}

func (f *FinnhubClient) placeholderNews(symbol string) []market.NewsArticle {
	f.log.Debugw("no finnhub key, serving placeholder news", "symbol", symbol)
	return []market.NewsArticle{{
		Title:     fmt.Sprintf("No live news feed configured for %s", symbol),
		Source:    "hermes",
		Summary:   "Set FINNHUB_API_KEY to enable live company news.",
		Published: time.Now().UTC(),
	}}
}

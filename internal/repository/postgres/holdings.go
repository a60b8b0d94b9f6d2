package postgres

import (
	"context"

	"hermes/internal/domain/portfolio"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
)

// Compile-time check
var _ portfolio.Repository = (*HoldingsRepository)(nil)

// HoldingsRepository implements portfolio.Repository using sqlx
type HoldingsRepository struct {
	db DBTX
}

// NewHoldingsRepository creates a new holdings repository
func NewHoldingsRepository(db DBTX) *HoldingsRepository {
	return &HoldingsRepository{db: db}
}

func recordQuery(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueries.WithLabelValues("postgres", operation, status).Inc()
}

// HoldingsForClient returns every holding for the client.
func (r *HoldingsRepository) HoldingsForClient(ctx context.Context, clientID string) ([]portfolio.Holding, error) {
	var holdings []portfolio.Holding

	query := `
		SELECT client_id, symbol, security_name, sector, asset_class,
		       market_cap_tier, quantity, purchase_price
		FROM holdings
		WHERE client_id = $1
		ORDER BY symbol`

	err := r.db.SelectContext(ctx, &holdings, query, clientID)
	recordQuery("select_holdings", err)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load holdings for client %s", clientID)
	}

	if len(holdings) == 0 {
		return nil, errors.Wrapf(errors.ErrPortfolioNotFound, "client %s", clientID)
	}

	return holdings, nil
}

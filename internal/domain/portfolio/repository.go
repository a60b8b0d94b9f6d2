package portfolio

import (
	"context"
)

// Repository defines the interface for loading client holdings.
type Repository interface {
	// HoldingsForClient returns every holding for the client, or
	// errors.ErrPortfolioNotFound when the client has none.
	HoldingsForClient(ctx context.Context, clientID string) ([]Holding, error)
}

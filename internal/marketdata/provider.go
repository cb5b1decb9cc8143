// Package marketdata provides live price retrieval for watched symbols.
package marketdata

import (
	"context"

	"stockwatch/internal/models"
)

// Provider fetches current price information for a symbol.
//
// Implementations return (nil, nil) for symbols they cannot resolve; an error
// indicates a transport-level failure. Callers treat both as "no quote this
// run": a missing quote skips the note, it never aborts a batch.
type Provider interface {
	Name() string
	GetPriceInfo(ctx context.Context, symbol string) (*models.PriceInfo, error)
}

package provider

import (
	"context"
	"time"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

// Provider is a single external exchange rate source.
// Providers are queried in trust/coverage priority order
type Provider interface {
	// Name returns the human-readable name of the provider
	Name() string

	// Quote returns raw quotes for the given date: how many units of each
	// currency one base unit buys. The result may be empty or cover only a
	// subset of the needed currencies; partial coverage is not an error
	Quote(ctx context.Context, asOf time.Time, needed []types.Currency) (map[types.Currency]float64, error)
}

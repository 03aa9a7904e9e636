package ingest

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/abhi2022git/currency-conversion/provider"
	"github.com/abhi2022git/currency-conversion/provider/currencies"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Resolver resolves the quote map for a single date by walking a
// priority-ordered provider chain
type Resolver struct {
	providers []provider.Provider
	logger    *slog.Logger
}

// NewResolver creates a new resolver over the given provider chain.
// Chain order is trust/coverage priority order
func NewResolver(providers []provider.Provider, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		providers: providers,
		logger:    noopLogger,
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve builds the raw quote map for the given date, covering the tracked
// currency set when possible.
//
// The highest-priority provider is consulted first; if it covers every
// required currency, lower-priority providers are not consulted at all.
// Otherwise each subsequent provider is queried only for the currencies
// still missing, and a value resolved by a higher-priority provider is
// never overwritten. Provider failures are logged and absorbed; the chain
// degrades to whatever coverage the remaining providers supply.
//
// The base currency is always forced to 1.0, and pegged currencies default
// to parity when unresolved. The returned error is non-nil only when the
// context is canceled
func (r *Resolver) Resolve(ctx context.Context, asOf time.Time) (map[types.Currency]float64, error) {
	var (
		quotes  = make(map[types.Currency]float64)
		missing = currencies.Required()
	)

	for _, p := range r.providers {
		if len(missing) == 0 {
			break
		}

		result, err := p.Quote(ctx, asOf, missing)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			r.logger.Warn(
				"provider failed, continuing down the chain",
				"provider", p.Name(),
				"date", asOf.Format(types.DateFormat),
				"err", err,
			)

			continue
		}

		for c, v := range result {
			// Never overwrite a higher-priority value
			if _, ok := quotes[c]; ok {
				continue
			}

			quotes[c] = v
		}

		still := stillMissing(missing, quotes)
		if len(still) > 0 && len(still) < len(missing) {
			r.logger.Info(
				"partial provider coverage",
				"provider", p.Name(),
				"date", asOf.Format(types.DateFormat),
				"missing", currencyStrings(still),
			)
		}

		missing = still
	}

	// The base always quotes at parity with itself
	quotes[currencies.Base] = 1.0

	// Pegged currencies default to parity when no provider resolved them
	if _, ok := quotes[currencies.Pegged]; !ok {
		quotes[currencies.Pegged] = 1.0
	}

	return quotes, nil
}

// stillMissing filters the needed set down to unresolved currencies
func stillMissing(needed []types.Currency, quotes map[types.Currency]float64) []types.Currency {
	out := make([]types.Currency, 0, len(needed))

	for _, c := range needed {
		if _, ok := quotes[c]; !ok {
			out = append(out, c)
		}
	}

	return out
}

func currencyStrings(cs []types.Currency) []string {
	out := make([]string, 0, len(cs))

	for _, c := range cs {
		out = append(out, c.String())
	}

	return out
}

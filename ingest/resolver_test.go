package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi2022git/currency-conversion/provider"
	"github.com/abhi2022git/currency-conversion/provider/currencies"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

var testDate = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

// fullCoverage returns quotes for every required currency
func fullCoverage() map[types.Currency]float64 {
	out := make(map[types.Currency]float64)

	for i, c := range currencies.Required() {
		out[c] = float64(i + 1)
	}

	return out
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("full first-provider coverage short-circuits", func(t *testing.T) {
		t.Parallel()

		var firstCalls, secondCalls int

		var (
			first = &mockProvider{
				quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
					firstCalls++

					return fullCoverage(), nil
				},
			}

			second = &mockProvider{
				quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
					secondCalls++

					return nil, nil
				},
			}
		)

		r := NewResolver([]provider.Provider{first, second})

		quotes, err := r.Resolve(context.Background(), testDate)
		require.NoError(t, err)

		assert.Equal(t, 1, firstCalls)
		assert.Zero(t, secondCalls)

		// Every tracked currency resolved, base forced to parity
		assert.Len(t, quotes, len(currencies.Tracked()))
		assert.InDelta(t, 1.0, quotes[currencies.Base], 0.000001)
	})

	t.Run("higher-priority values are never overwritten", func(t *testing.T) {
		t.Parallel()

		var secondNeeded []types.Currency

		var (
			first = &mockProvider{
				quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
					return map[types.Currency]float64{
						currencies.EUR: 0.91,
					}, nil
				},
			}

			second = &mockProvider{
				quoteFn: func(_ context.Context, _ time.Time, needed []types.Currency) (map[types.Currency]float64, error) {
					secondNeeded = needed

					return map[types.Currency]float64{
						currencies.EUR: 0.912,
						currencies.GBP: 0.78,
					}, nil
				},
			}
		)

		r := NewResolver([]provider.Provider{first, second})

		quotes, err := r.Resolve(context.Background(), testDate)
		require.NoError(t, err)

		// The second provider is only asked for the still-missing set
		assert.NotContains(t, secondNeeded, currencies.EUR)

		assert.InDelta(t, 0.91, quotes[currencies.EUR], 0.000001)
		assert.InDelta(t, 0.78, quotes[currencies.GBP], 0.000001)
		assert.InDelta(t, 1.0, quotes[currencies.USD], 0.000001)
	})

	t.Run("provider failure degrades to remaining chain", func(t *testing.T) {
		t.Parallel()

		var (
			first = &mockProvider{
				nameFn: func() string {
					return "broken"
				},
				quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
					return nil, errors.New("fetch failed")
				},
			}

			second = &mockProvider{
				quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
					return map[types.Currency]float64{
						currencies.EUR: 0.9,
					}, nil
				},
			}
		)

		r := NewResolver([]provider.Provider{first, second})

		quotes, err := r.Resolve(context.Background(), testDate)
		require.NoError(t, err)

		assert.InDelta(t, 0.9, quotes[currencies.EUR], 0.000001)
	})

	t.Run("total blackout yields base and pegged only", func(t *testing.T) {
		t.Parallel()

		broken := &mockProvider{
			quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
				return nil, errors.New("fetch failed")
			},
		}

		r := NewResolver([]provider.Provider{broken, broken})

		quotes, err := r.Resolve(context.Background(), testDate)
		require.NoError(t, err)

		require.Len(t, quotes, 2)
		assert.InDelta(t, 1.0, quotes[currencies.Base], 0.000001)
		assert.InDelta(t, 1.0, quotes[currencies.Pegged], 0.000001)
	})

	t.Run("pegged default only fills the gap", func(t *testing.T) {
		t.Parallel()

		p := &mockProvider{
			quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
				return map[types.Currency]float64{
					currencies.PAB: 1.001,
				}, nil
			},
		}

		r := NewResolver([]provider.Provider{p})

		quotes, err := r.Resolve(context.Background(), testDate)
		require.NoError(t, err)

		// The provider-resolved value survives resolution; the parity
		// invariant is enforced by the row builder
		assert.InDelta(t, 1.001, quotes[currencies.PAB], 0.000001)
	})

	t.Run("canceled context aborts", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		p := &mockProvider{
			quoteFn: func(ctx context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
				cancel()

				return nil, ctx.Err()
			},
		}

		r := NewResolver([]provider.Provider{p})

		_, err := r.Resolve(ctx, testDate)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

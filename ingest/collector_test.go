package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi2022git/currency-conversion/provider"
	"github.com/abhi2022git/currency-conversion/provider/currencies"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	t.Run("inclusive day-by-day range", func(t *testing.T) {
		t.Parallel()

		dates := DateRange(day(1), day(4))

		require.Len(t, dates, 4)
		assert.Equal(t, day(1), dates[0])
		assert.Equal(t, day(4), dates[3])
	})

	t.Run("start past end clamps to end", func(t *testing.T) {
		t.Parallel()

		dates := DateRange(day(10), day(4))

		require.Len(t, dates, 1)
		assert.Equal(t, day(4), dates[0])
	})

	t.Run("single day", func(t *testing.T) {
		t.Parallel()

		dates := DateRange(day(7), day(7))

		require.Len(t, dates, 1)
	})
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	t.Run("one row per date and currency", func(t *testing.T) {
		t.Parallel()

		p := &mockProvider{
			quoteFn: func(_ context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
				return fullCoverage(), nil
			},
		}

		c := NewCollector(NewResolver([]provider.Provider{p}))

		dates := DateRange(day(1), day(3))

		rows, err := c.Collect(context.Background(), dates)
		require.NoError(t, err)

		require.Len(t, rows, 3*len(currencies.Tracked()))

		seen := make(map[string]struct{})

		for _, row := range rows {
			_, ok := seen[row.Key()]
			require.False(t, ok, "duplicate key %s", row.Key())

			seen[row.Key()] = struct{}{}
		}
	})

	t.Run("interior gaps filled backward then forward", func(t *testing.T) {
		t.Parallel()

		// EUR resolves on the 1st and the 4th only; GBP never resolves
		quotesByDay := map[int]map[types.Currency]float64{
			1: {currencies.EUR: 0.90},
			4: {currencies.EUR: 0.94},
		}

		p := &mockProvider{
			quoteFn: func(_ context.Context, asOf time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
				return quotesByDay[asOf.Day()], nil
			},
		}

		c := NewCollector(NewResolver([]provider.Provider{p}))

		rows, err := c.Collect(context.Background(), DateRange(day(1), day(5)))
		require.NoError(t, err)

		eurByDay := make(map[int]*float64)
		gbpByDay := make(map[int]*float64)

		for _, row := range rows {
			switch row.Currency {
			case currencies.EUR:
				eurByDay[row.Date.Day()] = row.Rate
			case currencies.GBP:
				gbpByDay[row.Date.Day()] = row.Rate
			}
		}

		// Interior nulls adopt the next known value going backward
		require.NotNil(t, eurByDay[2])
		assert.InDelta(t, round6(1/0.94), *eurByDay[2], 0.0000001)
		require.NotNil(t, eurByDay[3])
		assert.InDelta(t, round6(1/0.94), *eurByDay[3], 0.0000001)

		// Trailing nulls adopt the last known value going forward
		require.NotNil(t, eurByDay[5])
		assert.InDelta(t, round6(1/0.94), *eurByDay[5], 0.0000001)

		// An entirely unresolved series stays null
		for d := 1; d <= 5; d++ {
			assert.Nil(t, gbpByDay[d])
		}
	})

	t.Run("canceled context aborts the run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		var calls int

		p := &mockProvider{
			quoteFn: func(ctx context.Context, _ time.Time, _ []types.Currency) (map[types.Currency]float64, error) {
				calls++

				if calls == 2 {
					cancel()
				}

				return nil, ctx.Err()
			},
		}

		c := NewCollector(NewResolver([]provider.Provider{p}))

		_, err := c.Collect(ctx, DateRange(day(1), day(5)))

		require.ErrorIs(t, err, context.Canceled)

		// The failure on one date aborts resolution of the remaining dates
		assert.Equal(t, 2, calls)
	})
}

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

// Collector drives the resolver across a date range and performs
// cross-date gap-filling on the built rows
type Collector struct {
	resolver *Resolver
	logger   *slog.Logger
}

// NewCollector creates a new multi-date collector
func NewCollector(resolver *Resolver, opts ...CollectorOption) *Collector {
	c := &Collector{
		resolver: resolver,
		logger:   noopLogger,
	}

	// Apply the options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collect resolves and builds rows for every date in order, then fills
// per-currency rate gaps backward, then forward, so isolated provider
// blackout days never leave a hole if any value exists for the currency
// across the collected range.
//
// Dates are processed strictly sequentially; a hard failure (context
// cancellation) aborts the whole run
func (c *Collector) Collect(ctx context.Context, dates []time.Time) ([]*types.ConversionRow, error) {
	var rows []*types.ConversionRow

	for _, d := range dates {
		quotes, err := c.resolver.Resolve(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve %s: %w", d.Format(types.DateFormat), err)
		}

		built := BuildRows(d, quotes)
		rows = append(rows, built...)

		c.logger.Info(
			"built rows",
			"date", d.Format(types.DateFormat),
			"rows", len(built),
		)
	}

	fillGaps(rows)

	return rows, nil
}

// DateRange generates the inclusive day-by-day range between start and end.
// A start past the end is clamped to the end
func DateRange(start, end time.Time) []time.Time {
	start = midnight(start)
	end = midnight(end)

	if start.After(end) {
		start = end
	}

	var dates []time.Time

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates
}

// fillGaps imputes nil rates within each currency's date-ordered series:
// first carrying the next known value backward, then the last known value
// forward. A series with no values at all stays nil
func fillGaps(rows []*types.ConversionRow) {
	byCurrency := make(map[types.Currency][]*types.ConversionRow)

	for _, row := range rows {
		byCurrency[row.Currency] = append(byCurrency[row.Currency], row)
	}

	for _, series := range byCurrency {
		sort.Slice(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})

		// Backward fill
		var next *float64

		for i := len(series) - 1; i >= 0; i-- {
			if series[i].Rate != nil {
				next = series[i].Rate

				continue
			}

			series[i].Rate = next
		}

		// Forward fill
		var last *float64

		for _, row := range series {
			if row.Rate != nil {
				last = row.Rate

				continue
			}

			row.Rate = last
		}
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

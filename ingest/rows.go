package ingest

import (
	"math"
	"time"

	"github.com/abhi2022git/currency-conversion/provider/currencies"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

// BuildRows converts a resolved quote map into canonical rows, one per
// tracked currency in dataset order.
//
// Quotes arrive as "units of currency per 1 base unit" and are inverted
// into "base units per 1 unit of currency", rounded to 6 decimals. A zero
// or missing quote yields a nil rate, never a division error. The base and
// pegged currencies are pinned at 1.0 unconditionally
func BuildRows(asOf time.Time, quotes map[types.Currency]float64) []*types.ConversionRow {
	tracked := currencies.Tracked()
	rows := make([]*types.ConversionRow, 0, len(tracked))

	for _, c := range tracked {
		country, code := currencies.CountryFor(c)

		var rate *float64

		switch {
		case c == currencies.Base || c == currencies.Pegged:
			parity := 1.0
			rate = &parity
		default:
			if q, ok := quotes[c]; ok && q != 0 {
				inverted := round6(1 / q)
				rate = &inverted
			}
		}

		rows = append(rows, types.NewRow(asOf, c, country, code, rate))
	}

	return rows
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

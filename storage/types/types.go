package types

import "time"

// DateFormat is the ISO calendar date layout used across the dataset
const DateFormat = "2006-01-02"

type Currency string

func (c Currency) String() string {
	return string(c)
}

// ConversionRow is the canonical persisted unit: the USD value of one unit
// of a tracked currency, on a given calendar date
type ConversionRow struct {
	Date        time.Time `json:"conversion_date"`
	Year        int       `json:"conversion_year"`
	Month       string    `json:"conversion_month"`
	Country     string    `json:"country"`
	CountryCode string    `json:"country_code"`
	Currency    Currency  `json:"currency"`
	Rate        *float64  `json:"conversion_rate"` // nil when unresolved
}

// Key returns the composite (date, currency) key the dataset is
// de-duplicated on
func (r *ConversionRow) Key() string {
	return r.Date.Format(DateFormat) + "-" + r.Currency.String()
}

// NewRow creates a row for the given date and currency, deriving the
// display fields from the date
func NewRow(date time.Time, currency Currency, country, code string, rate *float64) *ConversionRow {
	d := midnightUTC(date)

	return &ConversionRow{
		Date:        d,
		Year:        d.Year(),
		Month:       d.Month().String(),
		Country:     country,
		CountryCode: code,
		Currency:    currency,
		Rate:        rate,
	}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

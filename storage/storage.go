package storage

import (
	"context"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

// Storage is an abstraction over the persisted conversion rate dataset
type Storage interface {
	// Load returns the full persisted dataset, sorted by (date, currency)
	Load(context.Context) ([]*types.ConversionRow, error)

	// Merge reconciles the given rows into the dataset under the given
	// policy and persists the result
	Merge(context.Context, []*types.ConversionRow, types.MergePolicy) error

	// RatesOn returns the rows for the given ISO date.
	// An empty date selects the latest date present
	RatesOn(context.Context, string) ([]*types.ConversionRow, error)

	// ListCurrencies lists all currencies present in the dataset
	ListCurrencies(context.Context) ([]types.Currency, error)
}

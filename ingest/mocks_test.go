package ingest

import (
	"context"
	"time"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

type (
	nameDelegate  func() string
	quoteDelegate func(context.Context, time.Time, []types.Currency) (map[types.Currency]float64, error)
)

type mockProvider struct {
	nameFn  nameDelegate
	quoteFn quoteDelegate
}

func (m *mockProvider) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockProvider) Quote(
	ctx context.Context,
	asOf time.Time,
	needed []types.Currency,
) (map[types.Currency]float64, error) {
	if m.quoteFn != nil {
		return m.quoteFn(ctx, asOf, needed)
	}

	return nil, nil
}

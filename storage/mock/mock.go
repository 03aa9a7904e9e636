package mock

import (
	"context"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

type (
	LoadDelegate           func(context.Context) ([]*types.ConversionRow, error)
	MergeDelegate          func(context.Context, []*types.ConversionRow, types.MergePolicy) error
	RatesOnDelegate        func(context.Context, string) ([]*types.ConversionRow, error)
	ListCurrenciesDelegate func(context.Context) ([]types.Currency, error)
)

type Storage struct {
	LoadFn           LoadDelegate
	MergeFn          MergeDelegate
	RatesOnFn        RatesOnDelegate
	ListCurrenciesFn ListCurrenciesDelegate
}

func (m *Storage) Load(ctx context.Context) ([]*types.ConversionRow, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}

	return nil, nil
}

func (m *Storage) Merge(
	ctx context.Context,
	rows []*types.ConversionRow,
	policy types.MergePolicy,
) error {
	if m.MergeFn != nil {
		return m.MergeFn(ctx, rows, policy)
	}

	return nil
}

func (m *Storage) RatesOn(ctx context.Context, date string) ([]*types.ConversionRow, error) {
	if m.RatesOnFn != nil {
		return m.RatesOnFn(ctx, date)
	}

	return nil, nil
}

func (m *Storage) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	if m.ListCurrenciesFn != nil {
		return m.ListCurrenciesFn(ctx)
	}

	return nil, nil
}

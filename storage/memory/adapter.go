package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

// Storage is an in-memory dataset, primarily for tests and local serving
type Storage struct {
	data map[string]*types.ConversionRow

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[string]*types.ConversionRow),
	}
}

func (s *Storage) Load(_ context.Context) ([]*types.ConversionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedLocked(), nil
}

func (s *Storage) Merge(
	_ context.Context,
	rows []*types.ConversionRow,
	policy types.MergePolicy,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		if _, ok := s.data[row.Key()]; ok && policy == types.PolicyInsertIfAbsent {
			continue
		}

		elem := *row
		s.data[row.Key()] = &elem
	}

	return nil
}

func (s *Storage) RatesOn(_ context.Context, date string) ([]*types.ConversionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.sortedLocked()
	if len(rows) == 0 {
		return nil, nil
	}

	if date == "" {
		date = rows[len(rows)-1].Date.Format(types.DateFormat)
	}

	var out []*types.ConversionRow

	for _, row := range rows {
		if row.Date.Format(types.DateFormat) == date {
			out = append(out, row)
		}
	}

	return out, nil
}

func (s *Storage) ListCurrencies(_ context.Context) ([]types.Currency, error) {
	s.mu.RLock()

	seen := make(map[types.Currency]struct{})

	for _, row := range s.data {
		seen[row.Currency] = struct{}{}
	}

	s.mu.RUnlock()

	out := make([]types.Currency, 0, len(seen))

	for c := range seen {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out, nil
}

func (s *Storage) sortedLocked() []*types.ConversionRow {
	out := make([]*types.ConversionRow, 0, len(s.data))

	for _, row := range s.data {
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}

		return out[i].Currency < out[j].Currency
	})

	return out
}

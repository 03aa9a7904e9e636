package types

import "sort"

// MergePolicy is a named reconciliation rule applied on (date, currency)
// key collisions during a dataset merge
type MergePolicy string

const (
	// PolicySupersede keeps the incoming row on a key collision.
	// A later computation replaces the stored value (daily refresh flow)
	PolicySupersede MergePolicy = "SUPERSEDE"

	// PolicyInsertIfAbsent keeps the stored row on a key collision.
	// Incoming rows are only appended for keys not yet present
	// (month-block refresh flow)
	PolicyInsertIfAbsent MergePolicy = "INSERT_IF_ABSENT"
)

func (p MergePolicy) String() string {
	return string(p)
}

// Merge reconciles the incoming rows against the existing dataset,
// de-duplicating on the composite key according to the given policy.
// The result holds no two rows with the same key, sorted by (date, currency)
func Merge(existing, incoming []*ConversionRow, policy MergePolicy) []*ConversionRow {
	merged := make(map[string]*ConversionRow, len(existing)+len(incoming))

	for _, row := range existing {
		merged[row.Key()] = row
	}

	for _, row := range incoming {
		if _, ok := merged[row.Key()]; ok && policy == PolicyInsertIfAbsent {
			continue
		}

		merged[row.Key()] = row
	}

	out := make([]*ConversionRow, 0, len(merged))
	for _, row := range merged {
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

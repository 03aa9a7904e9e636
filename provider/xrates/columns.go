package xrates

import "regexp"

// columnPair points at the detected name and rate columns of a table
type columnPair struct {
	name int
	rate int
}

// columnStrategy inspects table headers and returns the name/rate column
// pair, or nil when the table shape is not recognized
type columnStrategy func(headers []string) *columnPair

var (
	nameHeaderRegex = regexp.MustCompile(`(?i)(currency|name)`)
	rateHeaderRegex = regexp.MustCompile(`(?i)(US\s*Dollar|USD|1\.00|rate)`)
)

// matchHeaders detects the columns by header pattern
func matchHeaders(headers []string) *columnPair {
	name, rate := -1, -1

	for i, h := range headers {
		if name < 0 && nameHeaderRegex.MatchString(h) {
			name = i

			continue
		}

		if rate < 0 && rateHeaderRegex.MatchString(h) {
			rate = i
		}
	}

	if name < 0 || rate < 0 {
		return nil
	}

	return &columnPair{
		name: name,
		rate: rate,
	}
}

// firstTwoColumns falls back to the first two columns of a wide-enough table
func firstTwoColumns(headers []string) *columnPair {
	if len(headers) < 2 {
		return nil
	}

	return &columnPair{
		name: 0,
		rate: 1,
	}
}

// defaultStrategies is the detection order: header match first,
// positional fallback second
func defaultStrategies() []columnStrategy {
	return []columnStrategy{
		matchHeaders,
		firstTwoColumns,
	}
}

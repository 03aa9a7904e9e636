package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

const (
	// DefaultCSVName is the row-oriented text form of the dataset
	DefaultCSVName = "currency_exchange_rate.csv"

	// DefaultXLSXName is the spreadsheet form of the dataset
	DefaultXLSXName = "currency_exchange_rate.xlsx"

	// DefaultArchiveDirName holds timestamp-suffixed superseded files
	DefaultArchiveDirName = "ARCHIVE"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Store persists the dataset as redundant CSV and XLSX files, archiving
// the prior version of each before every overwrite.
//
// The store is a single-writer resource: concurrent merges against the
// same directory must be serialized by the caller
type Store struct {
	logger *slog.Logger
	now    func() time.Time

	// File operations that contend with outside file locks,
	// swappable so the lock fallbacks can be exercised
	move     func(src, dst string) error
	saveXLSX func(path string, rows []*types.ConversionRow) error

	csvPath    string
	xlsxPath   string
	archiveDir string
}

// NewStore creates a file store rooted at the given directory
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		logger:     noopLogger,
		now:        time.Now,
		move:       os.Rename,
		saveXLSX:   writeXLSX,
		csvPath:    filepath.Join(dir, DefaultCSVName),
		xlsxPath:   filepath.Join(dir, DefaultXLSXName),
		archiveDir: filepath.Join(dir, DefaultArchiveDirName),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads the dataset from the CSV form. A missing, unreadable or
// corrupt file is treated as an empty dataset, never as a failure
func (s *Store) Load(_ context.Context) ([]*types.ConversionRow, error) {
	rows, err := readCSV(s.csvPath)
	if err != nil {
		s.logger.Warn(
			"unable to read existing dataset, treating as empty",
			"path", s.csvPath,
			"err", err,
		)

		return nil, nil
	}

	return rows, nil
}

// Merge loads the existing dataset, reconciles the given rows into it
// under the given policy, archives the prior files, and writes the merged
// result in both formats.
//
// The two writes are not transactional: a crash in between can leave the
// forms temporarily inconsistent, and the next run rebuilds from the CSV
func (s *Store) Merge(
	ctx context.Context,
	rows []*types.ConversionRow,
	policy types.MergePolicy,
) error {
	existing, _ := s.Load(ctx)

	merged := types.Merge(existing, rows, policy)

	s.archive(s.csvPath)
	s.archive(s.xlsxPath)

	if err := writeCSV(s.csvPath, merged); err != nil {
		return fmt.Errorf("unable to write CSV dataset: %w", err)
	}

	s.logger.Info(
		"wrote CSV dataset",
		"path", s.csvPath,
		"rows", len(merged),
		"policy", policy.String(),
	)

	if err := s.saveXLSX(s.xlsxPath, merged); err != nil {
		// The spreadsheet may be held open by another process; fall back
		// to an alternate timestamped path instead of failing the run
		alt := stampedPath(s.xlsxPath, s.now())

		if altErr := s.saveXLSX(alt, merged); altErr != nil {
			return fmt.Errorf("unable to write XLSX dataset: %w", altErr)
		}

		s.logger.Warn(
			"XLSX target in use, wrote alternate",
			"path", alt,
			"err", err,
		)

		return nil
	}

	s.logger.Info(
		"wrote XLSX dataset",
		"path", s.xlsxPath,
		"rows", len(merged),
	)

	return nil
}

// RatesOn returns the rows for the given ISO date, or for the latest
// date present when the date is empty
func (s *Store) RatesOn(ctx context.Context, date string) ([]*types.ConversionRow, error) {
	rows, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	if date == "" {
		// Rows are sorted by date; the last row carries the latest date
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

// ListCurrencies lists the distinct currencies present in the dataset
func (s *Store) ListCurrencies(ctx context.Context) ([]types.Currency, error) {
	rows, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[types.Currency]struct{})

	for _, row := range rows {
		seen[row.Currency] = struct{}{}
	}

	out := make([]types.Currency, 0, len(seen))

	for c := range seen {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out, nil
}

package file

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhi2022git/currency-conversion/storage/types"
)

// header is the shared column schema of both dataset forms
var header = []string{
	"conversion_date",
	"conversion_year",
	"conversion_month",
	"country",
	"country_code",
	"currency",
	"conversion_rate",
}

// readCSV parses the CSV form of the dataset.
// Malformed records are skipped, not failed
func readCSV(path string) ([]*types.ConversionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]*types.ConversionRow, 0, len(records)-1)

	for _, record := range records[1:] { // skip the header
		row, ok := parseRecord(record)
		if !ok {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func parseRecord(record []string) (*types.ConversionRow, bool) {
	if len(record) != len(header) {
		return nil, false
	}

	date, err := time.Parse(types.DateFormat, record[0])
	if err != nil {
		return nil, false
	}

	var rate *float64

	if record[6] != "" {
		v, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return nil, false
		}

		rate = &v
	}

	return types.NewRow(
		date,
		types.Currency(record[5]),
		record[3],
		record[4],
		rate,
	), true
}

// writeCSV writes the full dataset in the CSV form
func writeCSV(path string, rows []*types.ConversionRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		if err := w.Write(csvRecord(row)); err != nil {
			return err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return err
	}

	return f.Close()
}

func csvRecord(row *types.ConversionRow) []string {
	rate := ""
	if row.Rate != nil {
		rate = strconv.FormatFloat(*row.Rate, 'f', -1, 64)
	}

	return []string{
		row.Date.Format(types.DateFormat),
		strconv.Itoa(row.Year),
		row.Month,
		row.Country,
		row.CountryCode,
		row.Currency.String(),
		rate,
	}
}

// writeXLSX writes the full dataset in the spreadsheet form
func writeXLSX(path string, rows []*types.ConversionRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}

	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)

		var rate any
		if row.Rate != nil {
			rate = *row.Rate
		}

		cells := []any{
			row.Date.Format(types.DateFormat),
			row.Year,
			row.Month,
			row.Country,
			row.CountryCode,
			row.Currency.String(),
			rate,
		}

		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

package xrates

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/abhi2022git/currency-conversion/fetcher"
	"github.com/abhi2022git/currency-conversion/provider/currencies"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

// DefaultURL is the x-rates historical table endpoint
const DefaultURL = "https://www.x-rates.com/historical/"

// nameToISO maps x-rates currency display names (including common variants)
// to ISO codes
var nameToISO = map[string]types.Currency{
	"US Dollar":              currencies.USD,
	"U.S. Dollar":            currencies.USD,
	"Argentine Peso":         currencies.ARS,
	"Australian Dollar":      currencies.AUD,
	"Brazilian Real":         currencies.BRL,
	"Canadian Dollar":        currencies.CAD,
	"Chilean Peso":           currencies.CLP,
	"Chinese Yuan":           currencies.CNY,
	"Chinese Yuan Renminbi":  currencies.CNY,
	"UAE Dirham":             currencies.AED,
	"Emirati Dirham":         currencies.AED,
	"Euro":                   currencies.EUR,
	"Mexican Peso":           currencies.MXN,
	"New Zealand Dollar":     currencies.NZD,
	"Panamanian Balboa":      currencies.PAB,
	"British Pound":          currencies.GBP,
	"British Pound Sterling": currencies.GBP,
}

// Provider is the x-rates.com table scraping provider
type Provider struct {
	client     *fetcher.Client
	url        string
	strategies []columnStrategy
}

// NewProvider creates a new instance of the x-rates table provider
func NewProvider(client *fetcher.Client, url string) *Provider {
	return &Provider{
		client:     client,
		url:        url,
		strategies: defaultStrategies(),
	}
}

func (p *Provider) Name() string {
	return "x-rates"
}

// Quote scrapes the historical rate table for the given date.
// The page is fetched once; the needed set is not used for filtering,
// since x-rates serves a full table per date
func (p *Provider) Quote(
	ctx context.Context,
	asOf time.Time,
	_ []types.Currency,
) (map[types.Currency]float64, error) {
	params := url.Values{}
	params.Set("from", currencies.Base.String())
	params.Set("amount", "1")
	params.Set("date", asOf.Format(types.DateFormat))

	html, err := p.client.GetText(ctx, p.url, params)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	quotes := make(map[types.Currency]float64)

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := p.detectColumns(tableHeaders(table))
		if cols == nil {
			// Unrecognized table shape, contribute nothing
			return
		}

		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() <= cols.name || cells.Length() <= cols.rate {
				return
			}

			name := strings.TrimSpace(cells.Eq(cols.name).Text())

			iso, ok := nameToISO[name]
			if !ok {
				return
			}

			value, err := parseRate(cells.Eq(cols.rate).Text())
			if err != nil {
				return
			}

			quotes[iso] = value // 1 base unit = value units of iso
		})
	})

	return quotes, nil
}

// detectColumns runs the detection strategies in order
func (p *Provider) detectColumns(headers []string) *columnPair {
	for _, strategy := range p.strategies {
		if cols := strategy(headers); cols != nil {
			return cols
		}
	}

	return nil
}

// tableHeaders extracts the trimmed header cells of a table.
// Tables without a header section fall back to their first row
func tableHeaders(table *goquery.Selection) []string {
	headerRow := table.Find("thead tr").First()
	if headerRow.Length() == 0 {
		headerRow = table.Find("tr").First()
	}

	var headers []string

	headerRow.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})

	return headers
}

// parseRate parses a table rate cell, stripping thousand separators
func parseRate(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")

	return strconv.ParseFloat(s, 64)
}

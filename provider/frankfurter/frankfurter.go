package frankfurter

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/abhi2022git/currency-conversion/fetcher"
	"github.com/abhi2022git/currency-conversion/provider/currencies"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

// DefaultURL is the Frankfurter API root.
// Historical quotes are served at /{YYYY-MM-DD}
const DefaultURL = "https://api.frankfurter.app"

// ratesResponse is the relevant portion of the API payload
type ratesResponse struct {
	Rates map[types.Currency]*float64 `json:"rates"`
}

// Provider is the Frankfurter JSON API provider
type Provider struct {
	client *fetcher.Client
	url    string
}

// NewProvider creates a new instance of the Frankfurter provider
func NewProvider(client *fetcher.Client, url string) *Provider {
	return &Provider{
		client: client,
		url:    strings.TrimRight(url, "/"),
	}
}

func (p *Provider) Name() string {
	return "frankfurter"
}

// Quote fetches the date- and symbol-scoped rates object.
// Null entries are treated as not-provided, not zero
func (p *Provider) Quote(
	ctx context.Context,
	asOf time.Time,
	needed []types.Currency,
) (map[types.Currency]float64, error) {
	params := url.Values{}
	params.Set("from", currencies.Base.String())
	params.Set("to", joinSymbols(needed))

	var resp ratesResponse

	endpoint := p.url + "/" + asOf.Format(types.DateFormat)

	if err := p.client.GetJSON(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}

	quotes := make(map[types.Currency]float64, len(resp.Rates))

	for c, v := range resp.Rates {
		if v == nil {
			continue
		}

		quotes[c] = *v
	}

	return quotes, nil
}

// joinSymbols renders a deterministic comma-separated symbol filter
func joinSymbols(needed []types.Currency) string {
	symbols := make([]string, 0, len(needed))

	for _, c := range needed {
		symbols = append(symbols, c.String())
	}

	sort.Strings(symbols)

	return strings.Join(symbols, ",")
}

package collect

import (
	"github.com/abhi2022git/currency-conversion/fetcher"
	"github.com/abhi2022git/currency-conversion/provider"
	"github.com/abhi2022git/currency-conversion/provider/exchangeratehost"
	"github.com/abhi2022git/currency-conversion/provider/frankfurter"
	"github.com/abhi2022git/currency-conversion/provider/xrates"
)

// defaultProviders returns the default rate providers,
// in resolution order
func defaultProviders(client *fetcher.Client) []provider.Provider {
	return []provider.Provider{
		// Scraped x-rates historical tables
		xrates.NewProvider(client, xrates.DefaultURL),

		// exchangerate.host historical API
		exchangeratehost.NewProvider(client, exchangeratehost.DefaultURL),

		// Frankfurter (ECB) historical API
		frankfurter.NewProvider(client, frankfurter.DefaultURL),
	}
}

package currencies

import "github.com/abhi2022git/currency-conversion/storage/types"

var (
	USD types.Currency = "USD"
	ARS types.Currency = "ARS"
	AUD types.Currency = "AUD"
	BRL types.Currency = "BRL"
	CAD types.Currency = "CAD"
	CLP types.Currency = "CLP"
	CNY types.Currency = "CNY"
	AED types.Currency = "AED"
	EUR types.Currency = "EUR"
	MXN types.Currency = "MXN"
	NZD types.Currency = "NZD"
	PAB types.Currency = "PAB"
	GBP types.Currency = "GBP"
)

var (
	// Base is the reference currency all quotes are denominated against
	Base = USD

	// Pegged is fixed at parity with the base regardless of market data
	// (the balboa is pegged 1:1 to the US dollar)
	Pegged = PAB
)

// tracked is the fixed, ordered currency set the dataset covers
var tracked = []types.Currency{
	USD, ARS, AUD, BRL, CAD, CLP, CNY, AED, EUR, MXN, NZD, PAB, GBP,
}

type countryInfo struct {
	name string
	code string
}

var countries = map[types.Currency]countryInfo{
	USD: {"UNITED STATES", "USA"},
	ARS: {"ARGENTINA", "ARG"},
	AUD: {"AUSTRALIA", "AUS"},
	BRL: {"BRASIL", "BRA"},
	CAD: {"CANADA", "CAN"},
	CLP: {"CHILE", "CHL"},
	CNY: {"CHINA", "CHN"},
	AED: {"DUBAI", "UAE"},
	EUR: {"EUROPE", "EUR"},
	MXN: {"MEXICO", "MEX"},
	NZD: {"NEW ZEALAND", "NZ"},
	PAB: {"PANAMA", "PAN"},
	GBP: {"UNITED KINGDOM", "UK"},
}

// Tracked returns the tracked currency set, in dataset order
func Tracked() []types.Currency {
	out := make([]types.Currency, len(tracked))
	copy(out, tracked)

	return out
}

// Required returns the currencies a provider needs to resolve,
// which is the tracked set without the base
func Required() []types.Currency {
	out := make([]types.Currency, 0, len(tracked)-1)

	for _, c := range tracked {
		if c == Base {
			continue
		}

		out = append(out, c)
	}

	return out
}

// CountryFor returns the display country name and code for a currency.
// Unknown currencies map to empty strings
func CountryFor(c types.Currency) (string, string) {
	info, ok := countries[c]
	if !ok {
		return "", ""
	}

	return info.name, info.code
}

package frankfurter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhi2022git/currency-conversion/fetcher"
	"github.com/abhi2022git/currency-conversion/provider/currencies"
	"github.com/abhi2022git/currency-conversion/storage/types"
)

func TestProvider_Quote(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2024-01-02", r.URL.Path)
			assert.Equal(t, "USD", r.URL.Query().Get("from"))
			assert.Equal(t, "EUR,NZD", r.URL.Query().Get("to"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.912,"NZD":1.61}}`))
		}),
	)
	defer srv.Close()

	client := fetcher.NewClient(
		time.Second,
		fetcher.WithAttempts(1),
	)

	p := NewProvider(client, srv.URL)

	quotes, err := p.Quote(
		context.Background(),
		asOf,
		[]types.Currency{currencies.NZD, currencies.EUR},
	)
	require.NoError(t, err)

	require.Len(t, quotes, 2)
	assert.InDelta(t, 0.912, quotes[currencies.EUR], 0.000001)
	assert.InDelta(t, 1.61, quotes[currencies.NZD], 0.000001)
}

package xrates

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
)

const headerTable = `
<html><body>
<table>
<thead><tr><th>Currency</th><th>1.00 USD</th><th>inv. 1.00 USD</th></tr></thead>
<tbody>
<tr><td>Euro</td><td>0.91</td><td>1.0989</td></tr>
<tr><td>British Pound</td><td>0.78</td><td>1.2821</td></tr>
<tr><td>Chilean Peso</td><td>1,012.50</td><td>0.000988</td></tr>
<tr><td>Klingon Darsek</td><td>42</td><td>0.02</td></tr>
<tr><td>Mexican Peso</td><td>not-a-number</td><td>0.05</td></tr>
</tbody>
</table>
</body></html>`

const headerlessTable = `
<html><body>
<table>
<tbody>
<tr><td>Euro</td><td>0.92</td></tr>
</tbody>
</table>
</body></html>`

const narrowTable = `
<html><body>
<table>
<tbody>
<tr><td>Euro</td></tr>
</tbody>
</table>
</body></html>`

func testProvider(t *testing.T, html string) (*Provider, func()) {
	t.Helper()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "USD", r.URL.Query().Get("from"))
			assert.NotEmpty(t, r.URL.Query().Get("date"))

			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(html))
		}),
	)

	client := fetcher.NewClient(
		time.Second,
		fetcher.WithAttempts(1),
	)

	return NewProvider(client, srv.URL), srv.Close
}

func TestProvider_Quote(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	t.Run("header-matched columns", func(t *testing.T) {
		t.Parallel()

		p, closeFn := testProvider(t, headerTable)
		defer closeFn()

		quotes, err := p.Quote(context.Background(), asOf, nil)
		require.NoError(t, err)

		// Unknown names and unparseable rates are skipped, not failed
		require.Len(t, quotes, 3)

		assert.InDelta(t, 0.91, quotes[currencies.EUR], 0.000001)
		assert.InDelta(t, 0.78, quotes[currencies.GBP], 0.000001)

		// Thousand separators are stripped
		assert.InDelta(t, 1012.50, quotes[currencies.CLP], 0.000001)
	})

	t.Run("positional fallback", func(t *testing.T) {
		t.Parallel()

		p, closeFn := testProvider(t, headerlessTable)
		defer closeFn()

		quotes, err := p.Quote(context.Background(), asOf, nil)
		require.NoError(t, err)

		require.Len(t, quotes, 1)
		assert.InDelta(t, 0.92, quotes[currencies.EUR], 0.000001)
	})

	t.Run("undetectable table contributes nothing", func(t *testing.T) {
		t.Parallel()

		p, closeFn := testProvider(t, narrowTable)
		defer closeFn()

		quotes, err := p.Quote(context.Background(), asOf, nil)

		require.NoError(t, err)
		assert.Empty(t, quotes)
	})

	t.Run("fetch failure surfaces", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}),
		)
		defer srv.Close()

		client := fetcher.NewClient(
			time.Second,
			fetcher.WithAttempts(1),
		)

		p := NewProvider(client, srv.URL)

		_, err := p.Quote(context.Background(), asOf, nil)

		var fetchErr *fetcher.FetchError

		assert.ErrorAs(t, err, &fetchErr)
	})
}

func TestDetectColumns(t *testing.T) {
	t.Parallel()

	p := NewProvider(nil, DefaultURL)

	t.Run("header names win over position", func(t *testing.T) {
		t.Parallel()

		cols := p.detectColumns([]string{"", "Currency name", "rate"})

		require.NotNil(t, cols)
		assert.Equal(t, 1, cols.name)
		assert.Equal(t, 2, cols.rate)
	})

	t.Run("positional fallback", func(t *testing.T) {
		t.Parallel()

		cols := p.detectColumns([]string{"foo", "bar"})

		require.NotNil(t, cols)
		assert.Equal(t, 0, cols.name)
		assert.Equal(t, 1, cols.rate)
	})

	t.Run("single column rejected", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, p.detectColumns([]string{"foo"}))
	})
}

package cmcadapter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cryptobar/internal/httpx"
	"cryptobar/internal/provider"
	"cryptobar/internal/provider/cmcadapter"
	"cryptobar/internal/provider/coinmarketcap"
)

const btcUSD = `{
  "status": {"timestamp": "2024-07-30T05:43:12.000Z", "error_code": 0, "error_message": null},
  "data": {
    "BTC": {
      "id": 1, "name": "Bitcoin", "symbol": "BTC", "slug": "bitcoin",
      "quote": {"USD": {"price": 42000.5, "last_updated": "2024-07-30T05:43:00.000Z"}}
    }
  }
}`

func newAdapter(t *testing.T, handler http.HandlerFunc) *cmcadapter.Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := coinmarketcap.NewAPIClient("test-key",
		coinmarketcap.WithBaseURL(srv.URL),
		coinmarketcap.WithHTTPClient(httpx.New(time.Second)),
	)
	require.NoError(t, err)
	return cmcadapter.New(cmcadapter.Config{}, client)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	// Arrange: a server that only answers upper-cased BTC/USD.
	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "BTC" || r.URL.Query().Get("convert") != "USD" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(btcUSD))
	})

	// Act
	q, err := a.Fetch(t.Context(), " btc", "usd ")

	// Assert
	require.NoError(t, err)
	require.Equal(t, "CoinMarketCap", a.Name())
	require.Equal(t, "BTC", q.Symbol)
	require.Equal(t, "USD", q.Currency)
	require.Equal(t, "CoinMarketCap", q.Source)
	require.InEpsilon(t, 42000.5, q.Price, 1e-9)
	require.True(t, q.ReceivedAt.Equal(time.Date(2024, 7, 30, 5, 43, 0, 0, time.UTC)), "received_at=%s", q.ReceivedAt)
}

func TestFetch_MissingKey(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(btcUSD))
	})

	// Act: EUR is absent from the quote map.
	_, err := a.Fetch(t.Context(), "BTC", "EUR")
	require.ErrorIs(t, err, provider.ErrNotFound)

	_, err = a.Fetch(t.Context(), "ETH", "USD")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestFetch_MalformedJSON(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway timeout</html>`))
	})

	_, err := a.Fetch(t.Context(), "BTC", "USD")
	require.ErrorIs(t, err, provider.ErrDecode)
}

func TestFetch_EmptyArguments(t *testing.T) {
	t.Parallel()

	a := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	_, err := a.Fetch(t.Context(), "", "USD")
	require.ErrorIs(t, err, provider.ErrUsage)

	_, err = a.Fetch(t.Context(), "BTC", "  ")
	require.ErrorIs(t, err, provider.ErrUsage)
}

func TestFetch_Unreachable(t *testing.T) {
	t.Parallel()

	// Arrange: a server that is closed before the request.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := coinmarketcap.NewAPIClient("", coinmarketcap.WithBaseURL(srv.URL), coinmarketcap.WithHTTPClient(httpx.New(time.Second)))
	require.NoError(t, err)

	_, err = cmcadapter.New(cmcadapter.Config{Name: "cmc"}, client).Fetch(t.Context(), "BTC", "USD")
	require.ErrorIs(t, err, provider.ErrTransport)
}

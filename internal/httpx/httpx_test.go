package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cryptobar/internal/httpx"
)

func TestDo_FillsDefaults(t *testing.T) {
	t.Parallel()

	// Arrange: a server that records the headers it receives.
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := httpx.New(time.Second)
	client.Headers["X-Extra"] = "1"

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)

	// Act
	res, err := client.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	// Assert
	got := <-headers
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, httpx.DefaultUserAgent, got.Get("User-Agent"))
	require.Equal(t, "application/json", got.Get("Accepts"))
	require.Equal(t, "1", got.Get("X-Extra"))
}

func TestDo_KeepsRequestHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
	}))
	t.Cleanup(srv.Close)

	client := httpx.New(0)
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "polybar")
	req.Header.Set("Accepts", "text/plain")

	res, err := client.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	// Assert: request headers win over client defaults.
	got := <-headers
	require.Equal(t, "polybar", got.Get("User-Agent"))
	require.Equal(t, "text/plain", got.Get("Accepts"))
}

package coinmarketcap

import (
	"net/http"
)

const baseURL = "https://pro-api.coinmarketcap.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coinmarketcap_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIClient is a client for the CoinMarketCap Pro API.
type APIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// APIClientOption is a configuration option for the CoinMarketCap API client.
type APIClientOption func(*APIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) APIClientOption {
	return func(c *APIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) APIClientOption {
	return func(c *APIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) APIClientOption {
	return func(c *APIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewAPIClient creates a new CoinMarketCap API client.
func NewAPIClient(key string, options ...APIClientOption) (*APIClient, error) {
	var client = &APIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	client.header.Set("Accepts", "application/json")
	if key != "" {
		// https://coinmarketcap.com/api/documentation/v1/#section/Authentication
		client.header.Set("X-CMC_PRO_API_KEY", key)
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

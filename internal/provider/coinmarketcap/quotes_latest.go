package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"cryptobar/internal/provider"
)

// Status is the envelope CoinMarketCap attaches to every response.
type Status struct {
	Timestamp    string  `json:"timestamp"`
	ErrorCode    int     `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
	Elapsed      int     `json:"elapsed"`
	CreditCount  int     `json:"credit_count"`
}

// Coin is one entry of the quotes/latest data map.
type Coin struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	Slug        string            `json:"slug"`
	LastUpdated string            `json:"last_updated"` // 2024-07-30T05:43:00.000Z
	Quote       map[string]*Quote `json:"quote"`
}

// Quote is the market data of a coin in one convert currency.
type Quote struct {
	Price            *float64 `json:"price"`
	Volume24h        float64  `json:"volume_24h"`
	PercentChange1h  float64  `json:"percent_change_1h"`
	PercentChange24h float64  `json:"percent_change_24h"`
	PercentChange7d  float64  `json:"percent_change_7d"`
	MarketCap        float64  `json:"market_cap"`
	LastUpdated      string   `json:"last_updated"`
}

// QuotesLatest is the decoded body of /v1/cryptocurrency/quotes/latest.
type QuotesLatest struct {
	Status Status           `json:"status"`
	Data   map[string]*Coin `json:"data"`
}

// Lookup returns the quote stored under data[symbol].quote[convert].
// A missing coin, missing currency or null price is ErrNotFound.
func (q *QuotesLatest) Lookup(symbol, convert string) (*Quote, error) {
	coin, ok := q.Data[symbol]
	if !ok || coin == nil {
		return nil, fmt.Errorf("%w: no data for %s", provider.ErrNotFound, symbol)
	}
	quote, ok := coin.Quote[convert]
	if !ok || quote == nil {
		return nil, fmt.Errorf("%w: no %s quote for %s", provider.ErrNotFound, convert, symbol)
	}
	if quote.Price == nil {
		return nil, fmt.Errorf("%w: null %s price for %s", provider.ErrNotFound, convert, symbol)
	}
	return quote, nil
}

// GetQuotesLatest retrieves the latest quote of symbol converted to convert.
func (c *APIClient) GetQuotesLatest(ctx context.Context, symbol, convert string, opts ...APIClientOption) (*QuotesLatest, error) {
	var override = &APIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
	}
	for _, opt := range opts {
		opt(override)
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("convert", convert)

	endpoint := fmt.Sprintf("%s/v1/cryptocurrency/quotes/latest?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", provider.ErrConfig, err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: performing request: %w", provider.ErrTransport, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: bad request for symbol=%s convert=%s: %s", provider.ErrStatus, symbol, convert, errorMessage(res.Body))

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: unauthorized: %s", provider.ErrStatus, errorMessage(res.Body))

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limited", provider.ErrStatus)

	default:
		return nil, fmt.Errorf("%w: unexpected status code: %d", provider.ErrStatus, res.StatusCode)
	}

	var body QuotesLatest
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding quotes response: %w", provider.ErrDecode, err)
	}
	if body.Status.ErrorCode != 0 {
		msg := ""
		if body.Status.ErrorMessage != nil {
			msg = *body.Status.ErrorMessage
		}
		return nil, fmt.Errorf("%w: error_code=%d: %s", provider.ErrStatus, body.Status.ErrorCode, msg)
	}

	return &body, nil
}

// errorMessage pulls status.error_message out of an error response body,
// falling back to a truncated copy of the raw body.
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 2<<10))
	var body struct {
		Status Status `json:"status"`
	}
	if err := json.Unmarshal(b, &body); err == nil && body.Status.ErrorMessage != nil {
		return *body.Status.ErrorMessage
	}
	return string(b)
}

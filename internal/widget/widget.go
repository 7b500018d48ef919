// Package widget turns status-bar arguments into the single line the bar shows.
package widget

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"cryptobar/internal/format"
	"cryptobar/internal/provider"
)

// Request holds the three positional arguments.
type Request struct {
	Coin     string
	Currency string
	// Interval is accepted for compatibility with existing bar configs; nothing reads it.
	Interval string
}

// ParseArgs expects exactly <COIN> <CURRENCY> <CHANGE_INTERVAL>. Values are
// passed through as given; providers normalize symbols themselves.
func ParseArgs(args []string) (Request, error) {
	if len(args) != 3 {
		return Request{}, fmt.Errorf("%w: want <COIN> <CURRENCY> <CHANGE_INTERVAL>, got %d arguments", provider.ErrUsage, len(args))
	}
	req := Request{Coin: args[0], Currency: args[1], Interval: args[2]}
	if strings.TrimSpace(req.Coin) == "" || strings.TrimSpace(req.Currency) == "" {
		return Request{}, fmt.Errorf("%w: empty coin or currency", provider.ErrUsage)
	}
	return req, nil
}

// Price fetches the quote for req from p and renders it for display.
func Price(ctx context.Context, p provider.Provider, req Request) (string, error) {
	q, err := p.Fetch(ctx, req.Coin, req.Currency)
	if err != nil {
		return "", fmt.Errorf("%s %s/%s: %w", p.Name(), req.Coin, req.Currency, err)
	}
	if math.IsNaN(q.Price) || math.IsInf(q.Price, 0) {
		return "", fmt.Errorf("%w: %s returned non-finite price for %s/%s", provider.ErrDecode, p.Name(), req.Coin, req.Currency)
	}
	return format.Human(q.Price), nil
}

// Print writes exactly one line: price when err is nil, fallback otherwise.
func Print(w io.Writer, price string, err error, fallback string) error {
	line := price
	if err != nil || line == "" {
		line = fallback
	}
	_, werr := fmt.Fprintln(w, line)
	return werr
}

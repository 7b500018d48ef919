package provider

import (
	"context"
	"errors"
	"time"
)

// Quote is the normalized shape returned by all providers.
type Quote struct {
	Symbol     string    `json:"symbol"`
	Currency   string    `json:"currency"`
	Price      float64   `json:"price"`
	Source     string    `json:"source"`
	ReceivedAt time.Time `json:"received_at"`
}

// Provider fetches the latest price of one coin in one currency.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, symbol, currency string) (Quote, error)
}

// Failure kinds. Every error produced on the quote path wraps exactly one of
// these so callers can tell them apart with errors.Is.
var (
	ErrUsage     = errors.New("usage")
	ErrConfig    = errors.New("config")
	ErrTransport = errors.New("transport")
	ErrStatus    = errors.New("api status")
	ErrDecode    = errors.New("decode")
	ErrNotFound  = errors.New("quote not found")
)

// KindOf returns a short name for the failure kind of err, for logging.
// Context errors take precedence over transport.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUsage):
		return "usage"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unknown"
	}
}

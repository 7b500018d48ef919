package cmcadapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cryptobar/internal/provider"
	"cryptobar/internal/provider/coinmarketcap"
)

type Config struct {
	Name string // display name, default: CoinMarketCap
}

// Adapter exposes the CoinMarketCap quotes/latest endpoint as a provider.Provider.
type Adapter struct {
	cfg    Config
	client *coinmarketcap.APIClient
}

func New(cfg Config, client *coinmarketcap.APIClient) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "CoinMarketCap"
	}
	return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// Fetch asks for symbol converted to currency. Both are upper-cased since the
// API keys its response by upper-case ticker.
func (a *Adapter) Fetch(ctx context.Context, symbol, currency string) (provider.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if symbol == "" || currency == "" {
		return provider.Quote{}, fmt.Errorf("%w: symbol and currency are required", provider.ErrUsage)
	}

	res, err := a.client.GetQuotesLatest(ctx, symbol, currency)
	if err != nil {
		return provider.Quote{}, err
	}
	q, err := res.Lookup(symbol, currency)
	if err != nil {
		return provider.Quote{}, err
	}

	ts := time.Now().UTC()
	if t, err := time.Parse(time.RFC3339, q.LastUpdated); err == nil {
		ts = t.UTC()
	}
	return provider.Quote{
		Symbol:     symbol,
		Currency:   currency,
		Price:      *q.Price,
		Source:     a.cfg.Name,
		ReceivedAt: ts,
	}, nil
}

// Command cryptobar prints the latest price of one coin for a status bar.
//
//	cryptobar [-config cryptobar.json] <COIN> <CURRENCY> <CHANGE_INTERVAL>
//
// It always prints exactly one line and exits 0; on any failure the line is
// the configured fallback ("0.00" by default).
//
// The lookup times out after 10 seconds unless request_timeout_sec (or
// REQUEST_TIMEOUT_SEC) says otherwise; 0 disables the timeout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"cryptobar/internal/config"
	"cryptobar/internal/httpx"
	"cryptobar/internal/logging"
	"cryptobar/internal/provider"
	"cryptobar/internal/provider/cmcadapter"
	"cryptobar/internal/provider/coinmarketcap"
	"cryptobar/internal/widget"
)

func main() {
	run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) {
	logger, err := logging.New(config.DefaultLogLevel, stderr)
	if err != nil {
		logger = zap.NewNop()
	}

	fs := flag.NewFlagSet("cryptobar", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", os.Getenv("CRYPTOBAR_CONFIG"), "path to cryptobar.json (optional)")
	if err := fs.Parse(args); err != nil {
		fail(stdout, logger, fmt.Errorf("%w: %w", provider.ErrUsage, err), config.DefaultFallback)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config", zap.Error(err))
		fail(stdout, logger, fmt.Errorf("%w: %w", provider.ErrConfig, err), config.DefaultFallback)
		return
	}
	if l, err := logging.New(cfg.LogLevel, stderr); err == nil {
		logger = l
	}
	defer func() { _ = logger.Sync() }()
	if cfg.DotenvErr != nil {
		logger.Debug("skipping .env", zap.Error(cfg.DotenvErr))
	}

	price, err := quote(ctx, cfg, fs.Args())
	if err != nil {
		fail(stdout, logger, err, cfg.Fallback)
		return
	}
	if err := widget.Print(stdout, price, nil, cfg.Fallback); err != nil {
		logger.Error("write price", zap.Error(err))
	}
}

func quote(ctx context.Context, cfg config.Config, args []string) (string, error) {
	req, err := widget.ParseArgs(args)
	if err != nil {
		return "", err
	}

	if d := cfg.RequestTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	p, err := newProvider(cfg)
	if err != nil {
		return "", err
	}
	return widget.Price(ctx, p, req)
}

func newProvider(cfg config.Config) (provider.Provider, error) {
	httpClient := httpx.New(cfg.RequestTimeout())
	if cfg.UserAgent != "" {
		httpClient.UserAgent = cfg.UserAgent
	}
	client, err := coinmarketcap.NewAPIClient(
		cfg.APIKey,
		coinmarketcap.WithBaseURL(cfg.BaseURL),
		coinmarketcap.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: coinmarketcap client: %w", provider.ErrConfig, err)
	}
	return cmcadapter.New(cmcadapter.Config{}, client), nil
}

// fail prints the fallback line. The cause only goes to the debug log.
func fail(stdout io.Writer, logger *zap.Logger, err error, fallback string) {
	logger.Debug("printing fallback", zap.String("kind", provider.KindOf(err)), zap.Error(err))
	if werr := widget.Print(stdout, "", err, fallback); werr != nil {
		logger.Error("write fallback", zap.Error(werr))
	}
}

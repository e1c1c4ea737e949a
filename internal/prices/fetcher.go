package prices

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/Proton-105/mewfi-bot/internal/errors"
	"github.com/Proton-105/mewfi-bot/pkg/config"
	"github.com/Proton-105/mewfi-bot/pkg/metrics"
)

// Fetcher queries the primary provider when configured and falls back once on any failure.
type Fetcher struct {
	primary  Provider
	fallback Provider
	log      *slog.Logger
}

// NewFetcher builds a Fetcher. A nil primary selects the fallback-only path.
func NewFetcher(primary, fallback Provider, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}

	return &Fetcher{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// NewFromConfig wires CoinMarketCap as primary and CoinGecko as fallback sharing one client.
// Without an API key the primary is not constructed, so it is never called.
func NewFromConfig(cfg config.PricesConfig, log *slog.Logger) *Fetcher {
	client := &http.Client{Timeout: cfg.Timeout}

	var primary Provider
	if cfg.PrimaryEnabled() {
		primary = NewCoinMarketCap(cfg.PrimaryURL, cfg.APIKey, cfg.Currency, client)
	}

	return NewFetcher(primary, NewCoinGecko(cfg.FallbackURL, cfg.Currency, client), log)
}

// FetchPrices returns quotes for every symbol from a single provider, or a fetch error.
func (f *Fetcher) FetchPrices(ctx context.Context, symbols []Symbol) (Quotes, error) {
	var primaryErr error
	if f.primary != nil {
		quotes, err := f.attempt(ctx, f.primary, symbols)
		if err == nil {
			return quotes, nil
		}

		primaryErr = err
		f.log.WarnContext(ctx, "primary price provider failed, using fallback",
			slog.String("provider", string(f.primary.Source())),
			slog.Any("error", err),
		)
	}

	if f.fallback == nil {
		return nil, apperrors.NewFetchError(joinCauses(primaryErr, fmt.Errorf("no fallback provider configured")))
	}

	quotes, err := f.attempt(ctx, f.fallback, symbols)
	if err != nil {
		f.log.ErrorContext(ctx, "fallback price provider failed",
			slog.String("provider", string(f.fallback.Source())),
			slog.Any("error", err),
		)
		return nil, apperrors.NewFetchError(joinCauses(primaryErr, err))
	}

	return quotes, nil
}

func (f *Fetcher) attempt(ctx context.Context, p Provider, symbols []Symbol) (quotes Quotes, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			quotes, err = nil, fmt.Errorf("%s: panic: %v", p.Source(), r)
		}

		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RecordPriceFetch(string(p.Source()), status, time.Since(start))
	}()

	quotes, err = p.Fetch(ctx, symbols)
	if err != nil {
		return nil, err
	}

	for _, symbol := range symbols {
		if _, ok := quotes[symbol]; !ok {
			return nil, fmt.Errorf("%s: incomplete answer, %s missing", p.Source(), symbol)
		}
	}

	return quotes, nil
}

func joinCauses(primary, fallback error) error {
	if primary == nil {
		return fallback
	}
	return fmt.Errorf("primary: %v; fallback: %w", primary, fallback)
}

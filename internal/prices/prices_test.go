package prices

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Proton-105/mewfi-bot/internal/errors"
	"github.com/Proton-105/mewfi-bot/pkg/config"
)

const coinGeckoBody = `{
	"ripple": {"usd": 0.5234, "usd_24h_change": 1.234},
	"bitcoin": {"usd": 43210.5, "usd_24h_change": 0},
	"ethereum": {"usd": 2300, "usd_24h_change": -0.01}
}`

const coinMarketCapBody = `{
	"status": {"error_code": 0, "error_message": null},
	"data": {
		"XRP": {"quote": {"USD": {"price": 0.61, "percent_change_24h": 2.5}}},
		"BTC": {"quote": {"USD": {"price": 50000.123, "percent_change_24h": -1.2}}},
		"ETH": {"quote": {"USD": {"price": 3000, "percent_change_24h": null}}}
	}
}`

type fakeServer struct {
	*httptest.Server
	calls atomic.Int32
	last  atomic.Pointer[http.Request]
}

func newFakeServer(t *testing.T, status int, body string) *fakeServer {
	t.Helper()

	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.calls.Add(1)
		fs.last.Store(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(fs.Close)

	return fs
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCoinGecko_Fetch(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, coinGeckoBody)

	quotes, err := NewCoinGecko(srv.URL, "USD", srv.Client()).Fetch(context.Background(), DefaultSymbols)
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	assert.True(t, decimal.RequireFromString("0.5234").Equal(quotes[XRP].Price))
	assert.True(t, decimal.RequireFromString("1.234").Equal(quotes[XRP].Change24h))
	assert.Equal(t, SourceCoinGecko, quotes[BTC].Source)

	req := srv.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, coinGeckoSimplePricePath, req.URL.Path)
	assert.Equal(t, "ripple,bitcoin,ethereum", req.URL.Query().Get("ids"))
	assert.Equal(t, "usd", req.URL.Query().Get("vs_currencies"))
	assert.Equal(t, "true", req.URL.Query().Get("include_24hr_change"))
}

func TestCoinGecko_MissingAsset(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, `{"ripple": {"usd": 0.5}}`)

	_, err := NewCoinGecko(srv.URL, "USD", srv.Client()).Fetch(context.Background(), DefaultSymbols)
	assert.Error(t, err)
}

func TestCoinMarketCap_Fetch(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, coinMarketCapBody)

	quotes, err := NewCoinMarketCap(srv.URL, "secret-key", "usd", srv.Client()).Fetch(context.Background(), DefaultSymbols)
	require.NoError(t, err)

	assert.Equal(t, SourceCoinMarketCap, quotes[XRP].Source)
	assert.True(t, decimal.RequireFromString("50000.123").Equal(quotes[BTC].Price))
	assert.True(t, quotes[ETH].Change24h.IsZero(), "null change normalizes to zero")

	req := srv.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, coinMarketCapQuotesPath, req.URL.Path)
	assert.Equal(t, "secret-key", req.Header.Get(coinMarketCapKeyHeader))
	assert.Equal(t, "XRP,BTC,ETH", req.URL.Query().Get("symbol"))
	assert.Equal(t, "USD", req.URL.Query().Get("convert"))
}

func TestCoinMarketCap_RejectsNegativePrice(t *testing.T) {
	body := `{"data": {"XRP": {"quote": {"USD": {"price": -1, "percent_change_24h": 0}}}}}`
	srv := newFakeServer(t, http.StatusOK, body)

	_, err := NewCoinMarketCap(srv.URL, "k", "USD", srv.Client()).Fetch(context.Background(), []Symbol{XRP})
	assert.Error(t, err)
}

func TestFetcher_Fallback(t *testing.T) {
	testCases := []struct {
		name          string
		primaryStatus int
		primaryBody   string
		primaryDown   bool
	}{
		{name: "non-success status", primaryStatus: http.StatusTooManyRequests, primaryBody: `{}`},
		{name: "unparsable body", primaryStatus: http.StatusOK, primaryBody: `<html>`},
		{name: "network failure", primaryDown: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			primarySrv := newFakeServer(t, tc.primaryStatus, tc.primaryBody)
			fallbackSrv := newFakeServer(t, http.StatusOK, coinGeckoBody)

			primaryURL := primarySrv.URL
			if tc.primaryDown {
				primarySrv.Close()
			}

			fetcher := NewFetcher(
				NewCoinMarketCap(primaryURL, "key", "USD", http.DefaultClient),
				NewCoinGecko(fallbackSrv.URL, "USD", fallbackSrv.Client()),
				testLogger(),
			)

			quotes, err := fetcher.FetchPrices(context.Background(), DefaultSymbols)
			require.NoError(t, err)

			assert.EqualValues(t, 1, fallbackSrv.calls.Load())
			assert.Equal(t, SourceCoinGecko, quotes[XRP].Source)
		})
	}
}

func TestFetcher_PrimarySuccessSkipsFallback(t *testing.T) {
	primarySrv := newFakeServer(t, http.StatusOK, coinMarketCapBody)
	fallbackSrv := newFakeServer(t, http.StatusOK, coinGeckoBody)

	fetcher := NewFetcher(
		NewCoinMarketCap(primarySrv.URL, "key", "USD", primarySrv.Client()),
		NewCoinGecko(fallbackSrv.URL, "USD", fallbackSrv.Client()),
		testLogger(),
	)

	quotes, err := fetcher.FetchPrices(context.Background(), DefaultSymbols)
	require.NoError(t, err)

	assert.Equal(t, SourceCoinMarketCap, quotes[BTC].Source)
	assert.EqualValues(t, 1, primarySrv.calls.Load())
	assert.EqualValues(t, 0, fallbackSrv.calls.Load())
}

func TestFetcher_NoPrimaryKey(t *testing.T) {
	fallbackSrv := newFakeServer(t, http.StatusOK, coinGeckoBody)

	fetcher := NewFetcher(nil, NewCoinGecko(fallbackSrv.URL, "USD", fallbackSrv.Client()), testLogger())

	quotes, err := fetcher.FetchPrices(context.Background(), DefaultSymbols)
	require.NoError(t, err)
	assert.Len(t, quotes, 3)
	assert.EqualValues(t, 1, fallbackSrv.calls.Load())
}

func TestNewFromConfig(t *testing.T) {
	testCases := []struct {
		name         string
		apiKey       string
		primaryCalls int32
		source       Source
	}{
		{name: "empty key skips primary", apiKey: "", primaryCalls: 0, source: SourceCoinGecko},
		{name: "key enables primary", apiKey: "cmc-key", primaryCalls: 1, source: SourceCoinMarketCap},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			primarySrv := newFakeServer(t, http.StatusOK, coinMarketCapBody)
			fallbackSrv := newFakeServer(t, http.StatusOK, coinGeckoBody)

			fetcher := NewFromConfig(config.PricesConfig{
				APIKey:      tc.apiKey,
				PrimaryURL:  primarySrv.URL,
				FallbackURL: fallbackSrv.URL,
				Currency:    "USD",
				Timeout:     time.Second,
			}, testLogger())

			quotes, err := fetcher.FetchPrices(context.Background(), DefaultSymbols)
			require.NoError(t, err)

			assert.Equal(t, tc.source, quotes[BTC].Source)
			assert.Equal(t, tc.primaryCalls, primarySrv.calls.Load())
			assert.EqualValues(t, 1-tc.primaryCalls, fallbackSrv.calls.Load())
		})
	}
}

func TestFetcher_BothFail(t *testing.T) {
	primarySrv := newFakeServer(t, http.StatusInternalServerError, `{}`)
	fallbackSrv := newFakeServer(t, http.StatusBadGateway, `{}`)

	fetcher := NewFetcher(
		NewCoinMarketCap(primarySrv.URL, "key", "USD", primarySrv.Client()),
		NewCoinGecko(fallbackSrv.URL, "USD", fallbackSrv.Client()),
		testLogger(),
	)

	quotes, err := fetcher.FetchPrices(context.Background(), DefaultSymbols)
	require.Error(t, err)
	assert.Nil(t, quotes)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFetch))
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "status 502")
	assert.EqualValues(t, 1, primarySrv.calls.Load())
	assert.EqualValues(t, 1, fallbackSrv.calls.Load())
}

type incompleteProvider struct{}

func (incompleteProvider) Source() Source { return SourceCoinGecko }

func (incompleteProvider) Fetch(context.Context, []Symbol) (Quotes, error) {
	return Quotes{XRP: {Symbol: XRP, Price: decimal.NewFromInt(1), Source: SourceCoinGecko}}, nil
}

type panickyProvider struct{}

func (panickyProvider) Source() Source { return SourceCoinMarketCap }

func (panickyProvider) Fetch(context.Context, []Symbol) (Quotes, error) {
	panic("decoder blew up")
}

func TestFetcher_NoPartialResults(t *testing.T) {
	fetcher := NewFetcher(panickyProvider{}, incompleteProvider{}, testLogger())

	_, err := fetcher.FetchPrices(context.Background(), DefaultSymbols)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Message, "panic")
	assert.Contains(t, appErr.Message, "incomplete")
}

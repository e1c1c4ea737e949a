package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const coinGeckoSimplePricePath = "/api/v3/simple/price"

// coinGeckoIDs maps tickers to CoinGecko's long-form asset ids.
var coinGeckoIDs = map[Symbol]string{
	XRP: "ripple",
	BTC: "bitcoin",
	ETH: "ethereum",
}

// CoinGecko is the keyless fallback price provider.
type CoinGecko struct {
	baseURL  string
	currency string
	client   *http.Client
}

var _ Provider = (*CoinGecko)(nil)

// NewCoinGecko builds the fallback provider client.
func NewCoinGecko(baseURL, currency string, client *http.Client) *CoinGecko {
	if client == nil {
		client = http.DefaultClient
	}

	return &CoinGecko{
		baseURL:  strings.TrimRight(baseURL, "/"),
		currency: strings.ToLower(currency),
		client:   client,
	}
}

// Source implements Provider.
func (p *CoinGecko) Source() Source {
	return SourceCoinGecko
}

// Fetch requests all symbols in one call.
func (p *CoinGecko) Fetch(ctx context.Context, symbols []Symbol) (Quotes, error) {
	ids := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		id, ok := coinGeckoIDs[symbol]
		if !ok {
			return nil, fmt.Errorf("coingecko: unsupported symbol %s", symbol)
		}
		ids = append(ids, id)
	}

	endpoint, err := url.Parse(p.baseURL + coinGeckoSimplePricePath)
	if err != nil {
		return nil, fmt.Errorf("coingecko: build url: %w", err)
	}

	query := endpoint.Query()
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", p.currency)
	query.Set("include_24hr_change", "true")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("coingecko: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("coingecko: unexpected status %d", resp.StatusCode)
	}

	var body map[string]map[string]*decimal.Decimal
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("coingecko: decode body: %w", err)
	}

	changeKey := p.currency + "_24h_change"
	quotes := make(Quotes, len(symbols))
	for _, symbol := range symbols {
		asset, ok := body[coinGeckoIDs[symbol]]
		if !ok {
			return nil, fmt.Errorf("coingecko: asset %s missing from response", coinGeckoIDs[symbol])
		}

		q, err := newQuote(symbol, asset[p.currency], asset[changeKey], SourceCoinGecko)
		if err != nil {
			return nil, fmt.Errorf("coingecko: %w", err)
		}
		quotes[symbol] = q
	}

	return quotes, nil
}

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

const (
	coinMarketCapQuotesPath = "/v1/cryptocurrency/quotes/latest"
	coinMarketCapKeyHeader  = "X-CMC_PRO_API_KEY"
	maxResponseBytes        = 1 << 20
)

// CoinMarketCap is the primary, key-authenticated price provider.
type CoinMarketCap struct {
	baseURL  string
	apiKey   string
	currency string
	client   *http.Client
}

var _ Provider = (*CoinMarketCap)(nil)

// NewCoinMarketCap builds the primary provider client.
func NewCoinMarketCap(baseURL, apiKey, currency string, client *http.Client) *CoinMarketCap {
	if client == nil {
		client = http.DefaultClient
	}

	return &CoinMarketCap{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		currency: strings.ToUpper(currency),
		client:   client,
	}
}

type coinMarketCapResponse struct {
	Status struct {
		ErrorCode    int     `json:"error_code"`
		ErrorMessage *string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		Quote map[string]struct {
			Price            *decimal.Decimal `json:"price"`
			PercentChange24h *decimal.Decimal `json:"percent_change_24h"`
		} `json:"quote"`
	} `json:"data"`
}

// Source implements Provider.
func (p *CoinMarketCap) Source() Source {
	return SourceCoinMarketCap
}

// Fetch requests all symbols in one call.
func (p *CoinMarketCap) Fetch(ctx context.Context, symbols []Symbol) (Quotes, error) {
	endpoint, err := url.Parse(p.baseURL + coinMarketCapQuotesPath)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap: build url: %w", err)
	}

	query := endpoint.Query()
	query.Set("symbol", joinSymbols(symbols, ","))
	query.Set("convert", p.currency)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap: build request: %w", err)
	}
	req.Header.Set(coinMarketCapKeyHeader, p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("coinmarketcap: unexpected status %d", resp.StatusCode)
	}

	var body coinMarketCapResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("coinmarketcap: decode body: %w", err)
	}

	if body.Status.ErrorCode != 0 {
		msg := ""
		if body.Status.ErrorMessage != nil {
			msg = *body.Status.ErrorMessage
		}
		return nil, fmt.Errorf("coinmarketcap: api error %d: %s", body.Status.ErrorCode, msg)
	}

	quotes := make(Quotes, len(symbols))
	for _, symbol := range symbols {
		entry, ok := body.Data[string(symbol)]
		if !ok {
			return nil, fmt.Errorf("coinmarketcap: symbol %s missing from response", symbol)
		}

		quote, ok := entry.Quote[p.currency]
		if !ok {
			return nil, fmt.Errorf("coinmarketcap: %s quote in %s missing", symbol, p.currency)
		}

		q, err := newQuote(symbol, quote.Price, quote.PercentChange24h, SourceCoinMarketCap)
		if err != nil {
			return nil, fmt.Errorf("coinmarketcap: %w", err)
		}
		quotes[symbol] = q
	}

	return quotes, nil
}

// newQuote validates raw provider values. A missing change is treated as zero.
func newQuote(symbol Symbol, price, change *decimal.Decimal, source Source) (Quote, error) {
	if price == nil {
		return Quote{}, fmt.Errorf("%s price missing", symbol)
	}
	if price.IsNegative() {
		return Quote{}, fmt.Errorf("%s price is negative: %s", symbol, price.String())
	}

	q := Quote{
		Symbol:    symbol,
		Price:     *price,
		Change24h: decimal.Zero,
		Source:    source,
	}
	if change != nil {
		q.Change24h = *change
	}

	return q, nil
}

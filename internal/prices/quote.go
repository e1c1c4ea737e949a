// Package prices fetches live crypto quotes from a primary provider with a
// fallback and renders them for chat replies.
package prices

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is a ticker of the fixed fetch set.
type Symbol string

const (
	XRP Symbol = "XRP"
	BTC Symbol = "BTC"
	ETH Symbol = "ETH"
)

// DefaultSymbols is the fetch set of the price command, in display order.
var DefaultSymbols = []Symbol{XRP, BTC, ETH}

// Source names the provider that answered.
type Source string

const (
	SourceCoinMarketCap Source = "coinmarketcap"
	SourceCoinGecko     Source = "coingecko"
)

// DisplayName returns the provider name shown in attribution lines.
func (s Source) DisplayName() string {
	switch s {
	case SourceCoinMarketCap:
		return "CoinMarketCap"
	case SourceCoinGecko:
		return "CoinGecko"
	default:
		return string(s)
	}
}

// Quote is the normalized shape returned by all providers.
type Quote struct {
	Symbol    Symbol
	Price     decimal.Decimal
	Change24h decimal.Decimal
	Source    Source
}

// Quotes maps each requested symbol to its quote.
type Quotes map[Symbol]Quote

// Provider fetches quotes for all symbols in a single request.
type Provider interface {
	Source() Source
	Fetch(ctx context.Context, symbols []Symbol) (Quotes, error)
}

func joinSymbols(symbols []Symbol, sep string) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, sep)
}

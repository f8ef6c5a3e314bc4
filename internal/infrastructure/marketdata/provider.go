package marketdata

import (
	"context"

	"github.com/shopspring/decimal"
)

// QuoteResult is a single quote as delivered by a provider. Prices stay
// in the provider's decimal type until the application layer converts
// them into domain decimals.
type QuoteResult struct {
	Symbol        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	Currency      string
	Time          string
}

// SymbolResult describes an instrument found by symbol search.
type SymbolResult struct {
	Symbol   string
	Name     string
	Type     string
	Currency string
	Exchange string
}

// MDataProvider is the market data boundary for tradable assets.
// Physical assets never touch it; their prices are user-maintained.
type MDataProvider interface {
	SearchSymbol(ctx context.Context, query string) (*SymbolResult, error)
	GetQuote(ctx context.Context, symbol string) (*QuoteResult, error)
}

// QuoteBatchResult pairs a symbol with its quote or the error that
// prevented one.
type QuoteBatchResult struct {
	Symbol string
	Quote  *QuoteResult
	Error  error
}

// BatchProvider is implemented by providers whose API supports
// multi-symbol quote requests. Callers fall back to concurrent
// single-symbol calls when it is absent.
type BatchProvider interface {
	MDataProvider
	GetQuoteBatch(ctx context.Context, symbols []string) []QuoteBatchResult
}

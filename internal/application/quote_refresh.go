package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/folioview/folioview/internal/domain"
	"github.com/folioview/folioview/internal/infrastructure/marketdata"
)

// applyQuote converts a provider quote into domain decimals and records
// it on the asset, extending the charting history with the new point.
func applyQuote(asset *domain.TradableAsset, quote *marketdata.QuoteResult) error {
	price, err := domain.NewDecimalFromString(quote.Price.String())
	if err != nil {
		return fmt.Errorf("failed to parse quote price for %s: %w", asset.Symbol, err)
	}
	change, err := domain.NewDecimalFromString(quote.Change.String())
	if err != nil {
		return fmt.Errorf("failed to parse daily change for %s: %w", asset.Symbol, err)
	}
	changePercent, err := domain.NewDecimalFromString(quote.ChangePercent.String())
	if err != nil {
		return fmt.Errorf("failed to parse daily change percent for %s: %w", asset.Symbol, err)
	}

	asset.UpdateQuote(price, change, changePercent)
	asset.AppendPricePoint(time.Now(), price)
	return nil
}

// RefreshQuotes refreshes the current price of every tradable asset.
// Providers with a batch API get one multi-symbol call; others are
// queried concurrently symbol by symbol. Physical and generic assets are
// untouched — their prices are not market-sourced. Per-asset failures
// are logged and skipped so one dead symbol does not starve the rest.
func (s *FeedService) RefreshQuotes(ctx context.Context) error {
	assets, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	tradables := make(map[string][]*domain.TradableAsset)
	symbols := make([]string, 0)
	for _, asset := range assets {
		tradable, ok := asset.(*domain.TradableAsset)
		if !ok {
			continue
		}
		if _, seen := tradables[tradable.Symbol]; !seen {
			symbols = append(symbols, tradable.Symbol)
		}
		tradables[tradable.Symbol] = append(tradables[tradable.Symbol], tradable)
	}

	if len(symbols) == 0 {
		return nil
	}

	var quotes map[string]*marketdata.QuoteResult
	var quoteErrors map[string]error

	if batchProvider, ok := s.marketData.(marketdata.BatchProvider); ok {
		slog.InfoContext(ctx, "Using batch provider for quotes", "count", len(symbols))
		quotes, quoteErrors = getQuotesBatch(ctx, batchProvider, symbols)
	} else {
		slog.InfoContext(ctx, "Batch provider not available, using concurrent quotes", "count", len(symbols))
		quotes, quoteErrors = s.getQuotesConcurrent(ctx, symbols)
	}

	for symbol, err := range quoteErrors {
		slog.WarnContext(ctx, "Quote refresh failed for symbol", "symbol", symbol, "error", err)
	}

	for symbol, quote := range quotes {
		for _, tradable := range tradables[symbol] {
			if err := applyQuote(tradable, quote); err != nil {
				slog.WarnContext(ctx, "Failed to apply quote", "symbol", symbol, "error", err)
				continue
			}
			if err := s.repo.Save(ctx, tradable); err != nil {
				return fmt.Errorf("failed to save asset %s: %w", tradable.ID, err)
			}
		}
	}

	return s.Reload(ctx)
}

// getQuotesBatch uses the provider's multi-symbol API.
func getQuotesBatch(ctx context.Context, provider marketdata.BatchProvider, symbols []string) (map[string]*marketdata.QuoteResult, map[string]error) {
	quotes := make(map[string]*marketdata.QuoteResult)
	errors := make(map[string]error)

	for _, r := range provider.GetQuoteBatch(ctx, symbols) {
		if r.Error != nil {
			errors[r.Symbol] = r.Error
		} else {
			quotes[r.Symbol] = r.Quote
		}
	}

	return quotes, errors
}

// getQuotesConcurrent fans out single-symbol calls with goroutines and
// collects the results over a channel. Fallback for providers without a
// batch API.
func (s *FeedService) getQuotesConcurrent(ctx context.Context, symbols []string) (map[string]*marketdata.QuoteResult, map[string]error) {
	quotes := make(map[string]*marketdata.QuoteResult)
	errors := make(map[string]error)

	type quoteResult struct {
		symbol string
		quote  *marketdata.QuoteResult
		err    error
	}

	resultChan := make(chan quoteResult, len(symbols))
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			quote, err := s.marketData.GetQuote(ctx, symbol)
			resultChan <- quoteResult{
				symbol: symbol,
				quote:  quote,
				err:    err,
			}
		}(symbol)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for r := range resultChan {
		if r.err != nil {
			errors[r.symbol] = r.err
		} else {
			quotes[r.symbol] = r.quote
		}
	}

	return quotes, errors
}

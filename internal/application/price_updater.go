package application

import (
	"context"
	"log/slog"
	"time"
)

// QuoteRefresher refreshes the quoted prices of tradable assets.
type QuoteRefresher interface {
	RefreshQuotes(ctx context.Context) error
}

// PriceUpdater runs quote refreshes on a fixed interval so cards stay
// current between pull-to-refresh gestures.
type PriceUpdater struct {
	service  QuoteRefresher
	interval time.Duration
	stopChan chan struct{}
}

func NewPriceUpdater(service QuoteRefresher, interval time.Duration) *PriceUpdater {
	return &PriceUpdater{
		service:  service,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (u *PriceUpdater) Start(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	slog.Info("Price updater started", "interval", u.interval)

	for {
		select {
		case <-ticker.C:
			if err := u.service.RefreshQuotes(ctx); err != nil {
				slog.Error("Error refreshing quotes", "error", err)
			} else {
				slog.Info("Quotes refreshed successfully")
			}
		case <-u.stopChan:
			slog.Info("Price updater stopped")
			return
		case <-ctx.Done():
			slog.Info("Price updater stopped due to context cancellation")
			return
		}
	}
}

func (u *PriceUpdater) Stop() {
	close(u.stopChan)
}

package application

import (
	"context"
	"fmt"

	"github.com/folioview/folioview/internal/domain"
	"github.com/folioview/folioview/internal/infrastructure/marketdata"
	"github.com/folioview/folioview/internal/listview"
)

// CollaboratorHooks are the external collaborators the feed hands assets
// to. Both receive the asset reference only; rendering insight content
// or the manage sheet is entirely theirs.
type CollaboratorHooks struct {
	OpenInsights func(asset domain.Holding)
	Manage       func(asset domain.Holding)
}

// FeedService owns the valuation and list-rendering pipeline: it reads
// the backing collection from the store, classifies and values each
// asset, and feeds the virtualization controller. It never keeps a
// second mutable copy of the collection; reloads replace it wholesale.
type FeedService struct {
	repo       domain.AssetRepository
	marketData marketdata.MDataProvider
	controller *listview.Controller
	dispatcher *listview.Dispatcher
}

func NewFeedService(repo domain.AssetRepository, marketData marketdata.MDataProvider, cfg listview.Config, hooks CollaboratorHooks) *FeedService {
	s := &FeedService{
		repo:       repo,
		marketData: marketData,
		controller: listview.NewController(cfg),
	}

	s.dispatcher = listview.NewDispatcher(listview.Callbacks{
		OpenInsights: hooks.OpenInsights,
		Manage:       hooks.Manage,
		UpdateValue: func(id string, price domain.Decimal) error {
			return s.UpdateMarketPrice(context.Background(), id, price)
		},
	})

	return s
}

// FeedItem is one row of the rendered feed. Props are present only for
// mounted rows; placeholder and unmounted rows carry just their layout
// so the client can reserve scroll space without paying the card cost.
type FeedItem struct {
	ID     string             `json:"id"`
	Index  int                `json:"index"`
	State  string             `json:"state"`
	Layout listview.Layout    `json:"layout"`
	Props  *listview.RowProps `json:"-"`
}

// FeedPage is a full render pass: either the rows or an explicit
// empty-state request, never silently neither.
type FeedPage struct {
	Empty bool       `json:"empty"`
	Items []FeedItem `json:"items"`
}

// Reload re-reads the backing collection wholesale and diffs it into the
// controller by ID, as a pull-to-refresh does. Mount state of surviving
// rows is untouched. Concurrent reloads are safe: reads are idempotent
// and the last one to complete wins.
func (s *FeedService) Reload(ctx context.Context) error {
	assets, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	s.controller.SetAssets(assets)
	return nil
}

// Viewport reports the visible row range from the scrolling container.
func (s *FeedService) Viewport(first, last int) {
	s.controller.MarkVisible(first, last)
}

// Feed emits the current render pass.
func (s *FeedService) Feed(ctx context.Context) (*FeedPage, error) {
	snap := s.controller.Snapshot()
	if snap.Empty {
		return &FeedPage{Empty: true, Items: []FeedItem{}}, nil
	}

	items := make([]FeedItem, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		layout, err := s.controller.ItemLayout(row.Index)
		if err != nil {
			return nil, fmt.Errorf("failed to compute layout: %w", err)
		}

		item := FeedItem{
			ID:     row.ID,
			Index:  row.Index,
			State:  row.State.String(),
			Layout: layout,
		}

		if row.State == listview.Mounted {
			props, err := s.dispatcher.Dispatch(row.Asset)
			if err != nil {
				return nil, fmt.Errorf("failed to dispatch row %s: %w", row.ID, err)
			}
			item.Props = &props
		}

		items = append(items, item)
	}

	return &FeedPage{Items: items}, nil
}

// Controller exposes the windowing parameters and key extractor to the
// interface layer.
func (s *FeedService) Controller() *listview.Controller {
	return s.controller
}

// UpdateMarketPrice applies a user-entered market price to a physical
// asset, recomputing its derived fields and marking the manual override.
// Non-physical assets reject the mutation.
func (s *FeedService) UpdateMarketPrice(ctx context.Context, id string, price domain.Decimal) error {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find asset %s: %w", id, err)
	}

	physical, ok := asset.(*domain.PhysicalAsset)
	if !ok {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotPhysical)
	}

	physical.UpdateMarketPrice(price)

	if err := s.repo.Save(ctx, physical); err != nil {
		return fmt.Errorf("failed to save asset %s: %w", id, err)
	}

	return s.Reload(ctx)
}

// AddTradableRequest carries the fields of the tradable creation flow.
type AddTradableRequest struct {
	Name                 string           `json:"name"`
	Type                 domain.AssetType `json:"asset_type" binding:"required"`
	Symbol               string           `json:"symbol" binding:"required"`
	Exchange             string           `json:"exchange"`
	Currency             string           `json:"currency"`
	Quantity             domain.Decimal   `json:"quantity" binding:"required"`
	AveragePurchasePrice domain.Decimal   `json:"average_purchase_price" binding:"required"`
}

// AddTradable creates a tradable asset and fetches its first quote so
// the card is valuable immediately.
func (s *FeedService) AddTradable(ctx context.Context, req AddTradableRequest) (*domain.TradableAsset, error) {
	asset, err := domain.NewTradableAsset(req.Name, req.Type, req.Symbol, req.Exchange, req.Currency, req.Quantity, req.AveragePurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	quote, err := s.marketData.GetQuote(ctx, asset.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", asset.Symbol, err)
	}
	if err := applyQuote(asset, quote); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to save asset: %w", err)
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return asset, nil
}

// AddPhysicalRequest carries the fields of the physical creation flow.
type AddPhysicalRequest struct {
	Name            string           `json:"name"`
	Type            domain.AssetType `json:"asset_type" binding:"required"`
	Unit            string           `json:"unit" binding:"required"`
	Quantity        domain.Decimal   `json:"quantity" binding:"required"`
	PurchasePrice   domain.Decimal   `json:"purchase_price" binding:"required"`
	Purity          string           `json:"purity"`
	StorageLocation string           `json:"storage_location"`
	CertificateID   string           `json:"certificate_id"`
}

// AddPhysical creates a physical asset. No market price is fetched or
// guessed; valuation falls back to the purchase price until the user
// enters one.
func (s *FeedService) AddPhysical(ctx context.Context, req AddPhysicalRequest) (*domain.PhysicalAsset, error) {
	asset, err := domain.NewPhysicalAsset(req.Name, req.Type, req.Unit, req.Quantity, req.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	asset.Purity = req.Purity
	asset.StorageLocation = req.StorageLocation
	asset.CertificateID = req.CertificateID

	if err := s.repo.Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to save asset: %w", err)
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return asset, nil
}

// GetAsset returns a single asset by ID.
func (s *FeedService) GetAsset(ctx context.Context, id string) (domain.Holding, error) {
	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find asset %s: %w", id, err)
	}
	return asset, nil
}

// ListAssets returns the backing collection in store order.
func (s *FeedService) ListAssets(ctx context.Context) ([]domain.Holding, error) {
	return s.repo.FindAll(ctx)
}

// RemoveAsset deletes an asset; the reload drops its retained row state.
func (s *FeedService) RemoveAsset(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", id, err)
	}
	return s.Reload(ctx)
}

// Summary aggregates the derived metrics across the whole collection.
type Summary struct {
	AssetCount           int            `json:"asset_count"`
	TotalValue           domain.Decimal `json:"total_value"`
	TotalGainLoss        domain.Decimal `json:"total_gain_loss"`
	TotalGainLossPercent domain.Decimal `json:"total_gain_loss_percent"`
}

// Summary computes portfolio totals. Each asset's metrics come purely
// from its own fields; there is no cross-asset invariant to restore
// during partial updates.
func (s *FeedService) Summary(ctx context.Context) (*Summary, error) {
	assets, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	totalValue := domain.Zero
	totalGainLoss := domain.Zero
	for _, asset := range assets {
		v, err := asset.Valuation()
		if err != nil {
			return nil, fmt.Errorf("failed to value asset %s: %w", asset.Base().ID, err)
		}
		if totalValue, err = totalValue.Add(v.CurrentValue); err != nil {
			return nil, err
		}
		if totalGainLoss, err = totalGainLoss.Add(v.GainLoss); err != nil {
			return nil, err
		}
	}

	percent := domain.Zero
	costBasis, err := totalValue.Sub(totalGainLoss)
	if err != nil {
		return nil, err
	}
	if !costBasis.IsZero() {
		ratio, err := totalGainLoss.Div(costBasis)
		if err != nil {
			return nil, err
		}
		if percent, err = ratio.Mul(domain.NewDecimalFromInt(100)); err != nil {
			return nil, err
		}
	}

	return &Summary{
		AssetCount:           len(assets),
		TotalValue:           totalValue,
		TotalGainLoss:        totalGainLoss,
		TotalGainLossPercent: percent,
	}, nil
}

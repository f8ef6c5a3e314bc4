package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/folioview/folioview/internal/application"
	"github.com/folioview/folioview/internal/domain"
	"github.com/folioview/folioview/internal/listview"
	"github.com/gin-gonic/gin"
)

// FeedService defines the application surface the HTTP layer drives.
type FeedService interface {
	Feed(ctx context.Context) (*application.FeedPage, error)
	Viewport(first, last int)
	Reload(ctx context.Context) error
	AddTradable(ctx context.Context, req application.AddTradableRequest) (*domain.TradableAsset, error)
	AddPhysical(ctx context.Context, req application.AddPhysicalRequest) (*domain.PhysicalAsset, error)
	GetAsset(ctx context.Context, id string) (domain.Holding, error)
	ListAssets(ctx context.Context) ([]domain.Holding, error)
	RemoveAsset(ctx context.Context, id string) error
	UpdateMarketPrice(ctx context.Context, id string, price domain.Decimal) error
	RefreshQuotes(ctx context.Context) error
	Summary(ctx context.Context) (*application.Summary, error)
}

type Handler struct {
	feedService FeedService
}

func NewHandler(feedService FeedService) *Handler {
	return &Handler{
		feedService: feedService,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ViewportRequest reports the visible row range from the scroll
// container. Pointers keep index zero bindable.
type ViewportRequest struct {
	First *int `json:"first" binding:"required"`
	Last  *int `json:"last" binding:"required"`
}

// AddAssetRequest is the creation payload for every variant. The type
// tag decides which field set applies.
type AddAssetRequest struct {
	Name      string           `json:"name" binding:"required"`
	AssetType domain.AssetType `json:"asset_type" binding:"required"`
	Quantity  domain.Decimal   `json:"quantity" binding:"required"`

	Symbol               string         `json:"symbol"`
	Exchange             string         `json:"exchange"`
	Currency             string         `json:"currency"`
	AveragePurchasePrice domain.Decimal `json:"average_purchase_price"`

	Unit            string         `json:"unit"`
	PurchasePrice   domain.Decimal `json:"purchase_price"`
	Purity          string         `json:"purity"`
	StorageLocation string         `json:"storage_location"`
	CertificateID   string         `json:"certificate_id"`
}

type UpdatePriceRequest struct {
	Price domain.Decimal `json:"price" binding:"required"`
}

// RowCard is the serializable slice of a mounted row's render props.
// Callback wiring does not cross the wire; CanUpdateValue reports
// whether the manual price entry is available for this row.
type RowCard struct {
	Variant        domain.Variant      `json:"variant"`
	Asset          domain.Holding      `json:"asset"`
	Valuation      domain.Valuation    `json:"valuation"`
	Chart          listview.ChartState `json:"chart"`
	CanUpdateValue bool                `json:"can_update_value"`
}

type FeedItemResponse struct {
	ID     string          `json:"id"`
	Index  int             `json:"index"`
	State  string          `json:"state"`
	Layout listview.Layout `json:"layout"`
	Card   *RowCard        `json:"card,omitempty"`
}

type FeedResponse struct {
	Empty bool               `json:"empty"`
	Items []FeedItemResponse `json:"items"`
}

func (h *Handler) GetFeed(c *gin.Context) {
	page, err := h.feedService.Feed(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to render feed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := FeedResponse{Empty: page.Empty, Items: make([]FeedItemResponse, 0, len(page.Items))}
	for _, item := range page.Items {
		out := FeedItemResponse{
			ID:     item.ID,
			Index:  item.Index,
			State:  item.State,
			Layout: item.Layout,
		}
		if item.Props != nil {
			out.Card = &RowCard{
				Variant:        item.Props.Variant,
				Asset:          item.Props.Asset,
				Valuation:      item.Props.Valuation,
				Chart:          item.Props.Chart,
				CanUpdateValue: item.Props.OnUpdateValue != nil,
			}
		}
		resp.Items = append(resp.Items, out)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PostViewport(c *gin.Context) {
	var req ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.feedService.Viewport(*req.First, *req.Last)
	c.Status(http.StatusNoContent)
}

func (h *Handler) PostReload(c *gin.Context) {
	if err := h.feedService.Reload(c.Request.Context()); err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to reload feed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "feed reloaded"})
}

func (h *Handler) AddAsset(c *gin.Context) {
	var req AddAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()

	switch domain.Classify(req.AssetType) {
	case domain.VariantTradable:
		asset, err := h.feedService.AddTradable(ctx, application.AddTradableRequest{
			Name:                 req.Name,
			Type:                 req.AssetType,
			Symbol:               req.Symbol,
			Exchange:             req.Exchange,
			Currency:             req.Currency,
			Quantity:             req.Quantity,
			AveragePurchasePrice: req.AveragePurchasePrice,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to add asset", "symbol", req.Symbol, "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrInvalidAsset) {
				status = http.StatusBadRequest
			}
			c.JSON(status, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, asset)

	case domain.VariantPhysical:
		asset, err := h.feedService.AddPhysical(ctx, application.AddPhysicalRequest{
			Name:            req.Name,
			Type:            req.AssetType,
			Unit:            req.Unit,
			Quantity:        req.Quantity,
			PurchasePrice:   req.PurchasePrice,
			Purity:          req.Purity,
			StorageLocation: req.StorageLocation,
			CertificateID:   req.CertificateID,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to add asset", "name", req.Name, "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrInvalidAsset) {
				status = http.StatusBadRequest
			}
			c.JSON(status, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, asset)

	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported asset type: " + string(req.AssetType)})
	}
}

func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.feedService.ListAssets(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to list assets", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *Handler) GetAsset(c *gin.Context) {
	assetID := c.Param("id")

	asset, err := h.feedService.GetAsset(c.Request.Context(), assetID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to get asset", "asset_id", assetID, "error", err)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	assetID := c.Param("id")

	if err := h.feedService.RemoveAsset(c.Request.Context(), assetID); err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to delete asset", "asset_id", assetID, "error", err)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) UpdatePrice(c *gin.Context) {
	assetID := c.Param("id")

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.feedService.UpdateMarketPrice(c.Request.Context(), assetID, req.Price); err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to update price", "asset_id", assetID, "error", err)
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrAssetNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrNotPhysical):
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "price updated successfully"})
}

func (h *Handler) RefreshQuotes(c *gin.Context) {
	if err := h.feedService.RefreshQuotes(c.Request.Context()); err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to refresh quotes", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "quotes refreshed successfully"})
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	summary, err := h.feedService.Summary(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to summarize portfolio", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

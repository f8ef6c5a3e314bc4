package domain

import (
	"time"

	"github.com/google/uuid"
)

// PhysicalAsset is a commodity-like holding: gold, silver or another
// physical commodity. Its market price is maintained manually by the
// user; valuation falls back to the purchase price until a market price
// is entered.
type PhysicalAsset struct {
	Asset
	Unit               string   `json:"unit"`
	PurchasePrice      Decimal  `json:"purchase_price"`
	CurrentMarketPrice *Decimal `json:"current_market_price,omitempty"`
	// ManualPrice is true once the user has overridden the market price,
	// as opposed to the purchase-price default.
	ManualPrice bool `json:"manual_price"`

	Purity          string `json:"purity,omitempty"`
	StorageLocation string `json:"storage_location,omitempty"`
	CertificateID   string `json:"certificate_id,omitempty"`
}

func NewPhysicalAsset(name string, assetType AssetType, unit string, quantity, purchasePrice Decimal) (*PhysicalAsset, error) {
	if Classify(assetType) != VariantPhysical {
		return nil, ErrInvalidAsset
	}

	return &PhysicalAsset{
		Asset: Asset{
			ID:          uuid.New().String(),
			Name:        name,
			Type:        assetType,
			Quantity:    quantity,
			LastUpdated: time.Now(),
		},
		Unit:          unit,
		PurchasePrice: purchasePrice,
	}, nil
}

func (a *PhysicalAsset) Base() *Asset { return &a.Asset }

// EffectivePrice is the price actually used for valuation: the manual
// market price when present, the purchase price otherwise.
func (a *PhysicalAsset) EffectivePrice() Decimal {
	return EffectivePrice(a.PurchasePrice, a.CurrentMarketPrice)
}

// Valuation derives the current metrics using the effective price.
func (a *PhysicalAsset) Valuation() (Valuation, error) {
	return ValuePhysical(a.Quantity, a.PurchasePrice, a.CurrentMarketPrice)
}

// UpdateMarketPrice records a user-entered market price and marks the
// valuation as manually overridden.
func (a *PhysicalAsset) UpdateMarketPrice(price Decimal) {
	p := price
	a.CurrentMarketPrice = &p
	a.ManualPrice = true
	a.LastUpdated = time.Now()
}

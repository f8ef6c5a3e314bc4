package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrNotPhysical   = errors.New("asset is not a physical asset")
	ErrInvalidAsset  = errors.New("invalid asset")
)

// AssetType is the closed set of type tags assets carry. The tag alone
// decides which display variant an asset renders as; unknown tags are
// still valid and degrade to the generic variant.
type AssetType string

const (
	AssetTypeStock     AssetType = "stock"
	AssetTypeETF       AssetType = "etf"
	AssetTypeBond      AssetType = "bond"
	AssetTypeCrypto    AssetType = "crypto"
	AssetTypeGold      AssetType = "gold"
	AssetTypeSilver    AssetType = "silver"
	AssetTypeCommodity AssetType = "commodity"
)

// Variant is the display variant an asset classifies into.
type Variant string

const (
	VariantTradable Variant = "tradable"
	VariantPhysical Variant = "physical"
	VariantGeneric  Variant = "generic"
)

// Classify maps an asset type tag to its display variant. It is total:
// every tag, including ones introduced upstream after this code shipped,
// maps to exactly one variant. Unrecognized tags resolve to
// VariantGeneric so the render path is always defined.
func Classify(t AssetType) Variant {
	switch t {
	case AssetTypeGold, AssetTypeSilver, AssetTypeCommodity:
		return VariantPhysical
	case AssetTypeStock, AssetTypeETF, AssetTypeBond, AssetTypeCrypto:
		return VariantTradable
	default:
		return VariantGeneric
	}
}

// Asset holds the fields common to every holding regardless of variant.
// ID is opaque and immutable once created.
type Asset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        AssetType `json:"asset_type"`
	Quantity    Decimal   `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

// Holding is implemented by every asset variant the feed can render.
// Base exposes the shared fields; Valuation derives the financial
// metrics from the variant's own fields.
type Holding interface {
	Base() *Asset
	Valuation() (Valuation, error)
}

// GenericAsset is the fallback variant for unrecognized asset types. It
// carries only the type-agnostic fields and values to zero: there is no
// price model to derive metrics from.
type GenericAsset struct {
	Asset
}

func NewGenericAsset(name string, assetType AssetType, quantity Decimal) *GenericAsset {
	return &GenericAsset{
		Asset: Asset{
			ID:          uuid.New().String(),
			Name:        name,
			Type:        assetType,
			Quantity:    quantity,
			LastUpdated: time.Now(),
		},
	}
}

func (a *GenericAsset) Base() *Asset { return &a.Asset }

func (a *GenericAsset) Valuation() (Valuation, error) {
	return Valuation{CurrentValue: Zero, GainLoss: Zero, GainLossPercent: Zero}, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PricePoint is a single historical price observation used for charting.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price Decimal   `json:"price"`
}

// TradableAsset is a market-priced instrument: stock, ETF, bond or
// crypto. Its current price is externally supplied by a market data
// provider and never computed locally. A nil CurrentPrice means no quote
// has been delivered yet; valuation fails fast in that case.
type TradableAsset struct {
	Asset
	Symbol               string   `json:"symbol"`
	Exchange             string   `json:"exchange"`
	Currency             string   `json:"currency"`
	AveragePurchasePrice Decimal  `json:"average_purchase_price"`
	CurrentPrice         *Decimal `json:"current_price,omitempty"`
	DailyChange          Decimal  `json:"daily_change"`
	DailyChangePercent   Decimal  `json:"daily_change_percent"`

	Sector          string       `json:"sector,omitempty"`
	MarketCap       *Decimal     `json:"market_cap,omitempty"`
	DividendYield   *Decimal     `json:"dividend_yield,omitempty"`
	YieldToMaturity *Decimal     `json:"yield_to_maturity,omitempty"`
	MaturityDate    *time.Time   `json:"maturity_date,omitempty"`
	PricePoints     []PricePoint `json:"price_points,omitempty"`
}

func NewTradableAsset(name string, assetType AssetType, symbol, exchange, currency string, quantity, averagePurchasePrice Decimal) (*TradableAsset, error) {
	if Classify(assetType) != VariantTradable {
		return nil, ErrInvalidAsset
	}
	if symbol == "" {
		return nil, ErrInvalidAsset
	}

	return &TradableAsset{
		Asset: Asset{
			ID:          uuid.New().String(),
			Name:        name,
			Type:        assetType,
			Quantity:    quantity,
			LastUpdated: time.Now(),
		},
		Symbol:               symbol,
		Exchange:             exchange,
		Currency:             currency,
		AveragePurchasePrice: averagePurchasePrice,
	}, nil
}

func (a *TradableAsset) Base() *Asset { return &a.Asset }

// Valuation derives the current metrics from the live quote. Returns
// ErrMissingCurrentPrice when no quote has been delivered yet.
func (a *TradableAsset) Valuation() (Valuation, error) {
	return ValueTradable(a.Quantity, a.AveragePurchasePrice, a.CurrentPrice)
}

// UpdateQuote records a fresh quote from the market data provider.
func (a *TradableAsset) UpdateQuote(price, dailyChange, dailyChangePercent Decimal) {
	p := price
	a.CurrentPrice = &p
	a.DailyChange = dailyChange
	a.DailyChangePercent = dailyChangePercent
	a.LastUpdated = time.Now()
}

// AppendPricePoint extends the charting history with an observation.
func (a *TradableAsset) AppendPricePoint(at time.Time, price Decimal) {
	a.PricePoints = append(a.PricePoints, PricePoint{Time: at, Price: price})
}

// HasChartData reports whether real charting history exists. Cards show
// an explicit unavailable state otherwise; history is never synthesized.
func (a *TradableAsset) HasChartData() bool {
	return len(a.PricePoints) > 0
}

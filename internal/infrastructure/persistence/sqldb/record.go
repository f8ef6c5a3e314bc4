package sqldb

import (
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/folioview/folioview/internal/domain"
)

// assetColumns is the full column list of the assets table, in the order
// every dialect and scan uses it.
const assetColumns = `id, name, asset_type, quantity, last_updated, created_at,
		symbol, exchange, currency, average_purchase_price, current_price, daily_change, daily_change_percent,
		sector, market_cap, dividend_yield, yield_to_maturity, maturity_date,
		unit, purchase_price, current_market_price, manual_price, purity, storage_location, certificate_id`

// nullDecimal is a nullable domain.Decimal for variant-specific columns.
type nullDecimal struct {
	Decimal domain.Decimal
	Valid   bool
}

func (n *nullDecimal) Scan(value interface{}) error {
	if value == nil {
		*n = nullDecimal{}
		return nil
	}
	n.Valid = true
	return n.Decimal.Scan(value)
}

func (n nullDecimal) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Decimal.Value()
}

func (n nullDecimal) ptr() *domain.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func decimalFrom(p *domain.Decimal) nullDecimal {
	if p == nil {
		return nullDecimal{}
	}
	return nullDecimal{Decimal: *p, Valid: true}
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// assetRecord is the flat row shape of the assets table. Tradable and
// physical columns are nullable; each row fills only the set its variant
// owns.
type assetRecord struct {
	ID          string
	Name        string
	AssetType   string
	Quantity    domain.Decimal
	LastUpdated time.Time
	CreatedAt   time.Time

	Symbol               sql.NullString
	Exchange             sql.NullString
	Currency             sql.NullString
	AveragePurchasePrice nullDecimal
	CurrentPrice         nullDecimal
	DailyChange          nullDecimal
	DailyChangePercent   nullDecimal
	Sector               sql.NullString
	MarketCap            nullDecimal
	DividendYield        nullDecimal
	YieldToMaturity      nullDecimal
	MaturityDate         sql.NullTime

	Unit               sql.NullString
	PurchasePrice      nullDecimal
	CurrentMarketPrice nullDecimal
	ManualPrice        int64
	Purity             sql.NullString
	StorageLocation    sql.NullString
	CertificateID      sql.NullString
}

// insertArgs returns the values for a full-row INSERT, in assetColumns order.
func (r *assetRecord) insertArgs() []interface{} {
	return []interface{}{
		r.ID, r.Name, r.AssetType, r.Quantity, r.LastUpdated, r.CreatedAt,
		r.Symbol, r.Exchange, r.Currency, r.AveragePurchasePrice, r.CurrentPrice, r.DailyChange, r.DailyChangePercent,
		r.Sector, r.MarketCap, r.DividendYield, r.YieldToMaturity, r.MaturityDate,
		r.Unit, r.PurchasePrice, r.CurrentMarketPrice, r.ManualPrice, r.Purity, r.StorageLocation, r.CertificateID,
	}
}

// updateArgs returns the values a conflicting upsert refreshes: the
// columns the application mutates after creation.
func (r *assetRecord) updateArgs() []interface{} {
	return []interface{}{
		r.Name, r.Quantity, r.LastUpdated,
		r.CurrentPrice, r.DailyChange, r.DailyChangePercent, r.MarketCap, r.DividendYield,
		r.CurrentMarketPrice, r.ManualPrice,
	}
}

// scanDest returns scan targets matching assetColumns.
func (r *assetRecord) scanDest() []interface{} {
	return []interface{}{
		&r.ID, &r.Name, &r.AssetType, &r.Quantity, &r.LastUpdated, &r.CreatedAt,
		&r.Symbol, &r.Exchange, &r.Currency, &r.AveragePurchasePrice, &r.CurrentPrice, &r.DailyChange, &r.DailyChangePercent,
		&r.Sector, &r.MarketCap, &r.DividendYield, &r.YieldToMaturity, &r.MaturityDate,
		&r.Unit, &r.PurchasePrice, &r.CurrentMarketPrice, &r.ManualPrice, &r.Purity, &r.StorageLocation, &r.CertificateID,
	}
}

// encodeAsset flattens a holding into its row shape. Price points are
// returned separately; they live in their own table.
func encodeAsset(asset domain.Holding) (*assetRecord, []domain.PricePoint) {
	base := asset.Base()
	rec := &assetRecord{
		ID:          base.ID,
		Name:        base.Name,
		AssetType:   string(base.Type),
		Quantity:    base.Quantity,
		LastUpdated: base.LastUpdated,
	}

	switch a := asset.(type) {
	case *domain.TradableAsset:
		rec.Symbol = nullStr(a.Symbol)
		rec.Exchange = nullStr(a.Exchange)
		rec.Currency = nullStr(a.Currency)
		rec.AveragePurchasePrice = nullDecimal{Decimal: a.AveragePurchasePrice, Valid: true}
		rec.CurrentPrice = decimalFrom(a.CurrentPrice)
		rec.DailyChange = nullDecimal{Decimal: a.DailyChange, Valid: true}
		rec.DailyChangePercent = nullDecimal{Decimal: a.DailyChangePercent, Valid: true}
		rec.Sector = nullStr(a.Sector)
		rec.MarketCap = decimalFrom(a.MarketCap)
		rec.DividendYield = decimalFrom(a.DividendYield)
		rec.YieldToMaturity = decimalFrom(a.YieldToMaturity)
		if a.MaturityDate != nil {
			rec.MaturityDate = sql.NullTime{Time: *a.MaturityDate, Valid: true}
		}
		return rec, a.PricePoints

	case *domain.PhysicalAsset:
		rec.Unit = nullStr(a.Unit)
		rec.PurchasePrice = nullDecimal{Decimal: a.PurchasePrice, Valid: true}
		rec.CurrentMarketPrice = decimalFrom(a.CurrentMarketPrice)
		if a.ManualPrice {
			rec.ManualPrice = 1
		}
		rec.Purity = nullStr(a.Purity)
		rec.StorageLocation = nullStr(a.StorageLocation)
		rec.CertificateID = nullStr(a.CertificateID)
	}

	return rec, nil
}

// decodeAsset rebuilds the holding a row represents. The stored type tag
// decides the variant, so rows written with a tag this version does not
// know still come back as generic holdings.
func decodeAsset(rec *assetRecord, points []domain.PricePoint) domain.Holding {
	base := domain.Asset{
		ID:          rec.ID,
		Name:        rec.Name,
		Type:        domain.AssetType(rec.AssetType),
		Quantity:    rec.Quantity,
		LastUpdated: rec.LastUpdated,
	}

	switch domain.Classify(base.Type) {
	case domain.VariantTradable:
		a := &domain.TradableAsset{
			Asset:                base,
			Symbol:               rec.Symbol.String,
			Exchange:             rec.Exchange.String,
			Currency:             rec.Currency.String,
			AveragePurchasePrice: rec.AveragePurchasePrice.Decimal,
			CurrentPrice:         rec.CurrentPrice.ptr(),
			DailyChange:          rec.DailyChange.Decimal,
			DailyChangePercent:   rec.DailyChangePercent.Decimal,
			Sector:               rec.Sector.String,
			MarketCap:            rec.MarketCap.ptr(),
			DividendYield:        rec.DividendYield.ptr(),
			YieldToMaturity:      rec.YieldToMaturity.ptr(),
			PricePoints:          points,
		}
		if rec.MaturityDate.Valid {
			d := rec.MaturityDate.Time
			a.MaturityDate = &d
		}
		return a

	case domain.VariantPhysical:
		return &domain.PhysicalAsset{
			Asset:              base,
			Unit:               rec.Unit.String,
			PurchasePrice:      rec.PurchasePrice.Decimal,
			CurrentMarketPrice: rec.CurrentMarketPrice.ptr(),
			ManualPrice:        rec.ManualPrice != 0,
			Purity:             rec.Purity.String,
			StorageLocation:    rec.StorageLocation.String,
			CertificateID:      rec.CertificateID.String,
		}

	default:
		return &domain.GenericAsset{Asset: base}
	}
}

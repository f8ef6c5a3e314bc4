package domain

import "errors"

// ErrMissingCurrentPrice is returned when a tradable asset is valued
// without a quote. Unlike physical assets there is no fallback price to
// substitute; the caller owns delivering a quote first.
var ErrMissingCurrentPrice = errors.New("tradable asset has no current price")

var hundred = NewDecimalFromInt(100)

// Valuation is the derived financial state of a single holding. Values
// are unrounded; rounding and locale formatting are presentation
// concerns applied by the client.
type Valuation struct {
	CurrentValue    Decimal `json:"current_value"`
	GainLoss        Decimal `json:"gain_loss"`
	GainLossPercent Decimal `json:"gain_loss_percent"`
}

// EffectivePrice resolves the manual-override fallback rule for physical
// assets: the market price when one was entered, the purchase price
// otherwise. Kept as a named function so the policy is testable on its
// own.
func EffectivePrice(purchasePrice Decimal, marketPrice *Decimal) Decimal {
	if marketPrice != nil {
		return *marketPrice
	}
	return purchasePrice
}

// ValueTradable computes the valuation of a market-priced instrument:
//
//	currentValue = quantity * currentPrice
//	gainLoss     = currentValue - quantity * averagePurchasePrice
//	percent      = gainLoss / costBasis * 100, 0 when the basis is 0
//
// A nil currentPrice is a caller contract violation and fails with
// ErrMissingCurrentPrice; no price is ever guessed. Negative inputs
// propagate into negative results, they are not clamped here — upstream
// validation rejects them before they reach the calculator.
func ValueTradable(quantity, averagePurchasePrice Decimal, currentPrice *Decimal) (Valuation, error) {
	if currentPrice == nil {
		return Valuation{}, ErrMissingCurrentPrice
	}
	return valueAt(quantity, averagePurchasePrice, *currentPrice)
}

// ValuePhysical computes the valuation of a physical holding using the
// effective price resolution rule. The same formulas as ValueTradable
// apply with the effective price substituted for the quote.
func ValuePhysical(quantity, purchasePrice Decimal, marketPrice *Decimal) (Valuation, error) {
	return valueAt(quantity, purchasePrice, EffectivePrice(purchasePrice, marketPrice))
}

func valueAt(quantity, costPrice, price Decimal) (Valuation, error) {
	currentValue, err := quantity.Mul(price)
	if err != nil {
		return Valuation{}, err
	}

	costBasis, err := quantity.Mul(costPrice)
	if err != nil {
		return Valuation{}, err
	}

	gainLoss, err := currentValue.Sub(costBasis)
	if err != nil {
		return Valuation{}, err
	}

	percent := Zero
	if !costBasis.IsZero() {
		ratio, err := gainLoss.Div(costBasis)
		if err != nil {
			return Valuation{}, err
		}
		if percent, err = ratio.Mul(hundred); err != nil {
			return Valuation{}, err
		}
	}

	return Valuation{
		CurrentValue:    currentValue,
		GainLoss:        gainLoss,
		GainLossPercent: percent,
	}, nil
}

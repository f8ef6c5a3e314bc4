package domain

import (
	"errors"
	"testing"
)

func decPtr(v Decimal) *Decimal { return &v }

func TestValueTradable(t *testing.T) {
	quantity := NewDecimalFromInt(10)
	avgPrice := NewDecimalFromInt(150)
	current := NewDecimalFromInt(160)

	v, err := ValueTradable(quantity, avgPrice, &current)
	if err != nil {
		t.Fatalf("ValueTradable failed: %v", err)
	}

	if !v.CurrentValue.Equal(NewDecimalFromInt(1600)) {
		t.Errorf("CurrentValue = %s, want 1600", v.CurrentValue)
	}
	if !v.GainLoss.Equal(NewDecimalFromInt(100)) {
		t.Errorf("GainLoss = %s, want 100", v.GainLoss)
	}

	// 100 / 1500 * 100 ≈ 6.67 after display rounding
	rounded, err := v.GainLossPercent.Round(2)
	if err != nil {
		t.Fatalf("Round failed: %v", err)
	}
	if !rounded.Equal(MustDecimal("6.67")) {
		t.Errorf("GainLossPercent = %s, want ≈6.67", v.GainLossPercent)
	}
}

func TestValueTradable_MissingCurrentPriceFailsFast(t *testing.T) {
	_, err := ValueTradable(NewDecimalFromInt(10), NewDecimalFromInt(150), nil)
	if !errors.Is(err, ErrMissingCurrentPrice) {
		t.Fatalf("expected ErrMissingCurrentPrice, got %v", err)
	}
}

func TestValueTradable_ZeroCostBasis(t *testing.T) {
	current := NewDecimalFromInt(160)

	v, err := ValueTradable(NewDecimalFromInt(10), Zero, &current)
	if err != nil {
		t.Fatalf("ValueTradable failed: %v", err)
	}
	if !v.GainLossPercent.IsZero() {
		t.Errorf("GainLossPercent = %s, want 0 for zero cost basis", v.GainLossPercent)
	}
}

func TestValueTradable_ZeroQuantity(t *testing.T) {
	current := NewDecimalFromInt(160)

	v, err := ValueTradable(Zero, NewDecimalFromInt(150), &current)
	if err != nil {
		t.Fatalf("ValueTradable failed: %v", err)
	}
	if !v.CurrentValue.IsZero() || !v.GainLoss.IsZero() || !v.GainLossPercent.IsZero() {
		t.Errorf("zero quantity valuation not zero: %+v", v)
	}
}

func TestValueTradable_LossIsNegative(t *testing.T) {
	current := NewDecimalFromInt(120)

	v, err := ValueTradable(NewDecimalFromInt(10), NewDecimalFromInt(150), &current)
	if err != nil {
		t.Fatalf("ValueTradable failed: %v", err)
	}
	if !v.GainLoss.Equal(MustDecimal("-300")) {
		t.Errorf("GainLoss = %s, want -300", v.GainLoss)
	}
	if !v.GainLossPercent.Equal(MustDecimal("-20")) {
		t.Errorf("GainLossPercent = %s, want -20", v.GainLossPercent)
	}
}

func TestValueTradable_NegativeInputsPropagate(t *testing.T) {
	// Upstream validation owns rejecting negatives; the calculator must
	// pass them through rather than clamp.
	current := NewDecimalFromInt(160)

	v, err := ValueTradable(MustDecimal("-10"), NewDecimalFromInt(150), &current)
	if err != nil {
		t.Fatalf("ValueTradable failed: %v", err)
	}
	if !v.CurrentValue.Equal(MustDecimal("-1600")) {
		t.Errorf("CurrentValue = %s, want -1600", v.CurrentValue)
	}
}

func TestValuePhysical_NoOverride(t *testing.T) {
	v, err := ValuePhysical(NewDecimalFromInt(100), NewDecimalFromInt(50), nil)
	if err != nil {
		t.Fatalf("ValuePhysical failed: %v", err)
	}

	if !v.CurrentValue.Equal(NewDecimalFromInt(5000)) {
		t.Errorf("CurrentValue = %s, want 5000", v.CurrentValue)
	}
	if !v.GainLoss.IsZero() {
		t.Errorf("GainLoss = %s, want 0", v.GainLoss)
	}
	if !v.GainLossPercent.IsZero() {
		t.Errorf("GainLossPercent = %s, want 0", v.GainLossPercent)
	}
}

func TestValuePhysical_WithOverride(t *testing.T) {
	v, err := ValuePhysical(NewDecimalFromInt(100), NewDecimalFromInt(50), decPtr(NewDecimalFromInt(55)))
	if err != nil {
		t.Fatalf("ValuePhysical failed: %v", err)
	}

	if !v.CurrentValue.Equal(NewDecimalFromInt(5500)) {
		t.Errorf("CurrentValue = %s, want 5500", v.CurrentValue)
	}
	if !v.GainLoss.Equal(NewDecimalFromInt(500)) {
		t.Errorf("GainLoss = %s, want 500", v.GainLoss)
	}
	if !v.GainLossPercent.Equal(NewDecimalFromInt(10)) {
		t.Errorf("GainLossPercent = %s, want 10", v.GainLossPercent)
	}
}

func TestValuePhysical_ZeroCostBasis(t *testing.T) {
	v, err := ValuePhysical(NewDecimalFromInt(100), Zero, decPtr(NewDecimalFromInt(55)))
	if err != nil {
		t.Fatalf("ValuePhysical failed: %v", err)
	}
	if !v.GainLossPercent.IsZero() {
		t.Errorf("GainLossPercent = %s, want 0 for zero cost basis", v.GainLossPercent)
	}
	if !v.GainLoss.Equal(NewDecimalFromInt(5500)) {
		t.Errorf("GainLoss = %s, want 5500", v.GainLoss)
	}
}

func TestEffectivePrice(t *testing.T) {
	purchase := NewDecimalFromInt(50)

	if got := EffectivePrice(purchase, nil); !got.Equal(purchase) {
		t.Errorf("EffectivePrice without override = %s, want 50", got)
	}

	market := NewDecimalFromInt(55)
	if got := EffectivePrice(purchase, &market); !got.Equal(market) {
		t.Errorf("EffectivePrice with override = %s, want 55", got)
	}
}

// Percent must always be consistent with gainLoss and the cost basis,
// for every combination the calculator can produce.
func TestValuation_PercentConsistency(t *testing.T) {
	cases := []struct {
		quantity, costPrice, price string
	}{
		{"10", "150", "160"},
		{"100", "50", "55"},
		{"100", "50", "50"},
		{"3.5", "12.25", "9.8"},
		{"1", "0.0001", "2"},
		{"250", "80", "79.99"},
	}

	for _, c := range cases {
		quantity := MustDecimal(c.quantity)
		costPrice := MustDecimal(c.costPrice)
		price := MustDecimal(c.price)

		v, err := ValueTradable(quantity, costPrice, &price)
		if err != nil {
			t.Fatalf("ValueTradable(%v) failed: %v", c, err)
		}

		costBasis, err := quantity.Mul(costPrice)
		if err != nil {
			t.Fatalf("cost basis: %v", err)
		}
		ratio, err := v.GainLoss.Div(costBasis)
		if err != nil {
			t.Fatalf("ratio: %v", err)
		}
		want, err := ratio.Mul(NewDecimalFromInt(100))
		if err != nil {
			t.Fatalf("percent: %v", err)
		}

		if !v.GainLossPercent.Equal(want) {
			t.Errorf("case %v: percent %s inconsistent with gainLoss %s over basis %s (want %s)",
				c, v.GainLossPercent, v.GainLoss, costBasis, want)
		}
	}
}

func TestPhysicalAsset_UpdateMarketPrice(t *testing.T) {
	asset, err := NewPhysicalAsset("Gold bars", AssetTypeGold, "g", NewDecimalFromInt(100), NewDecimalFromInt(50))
	if err != nil {
		t.Fatalf("NewPhysicalAsset failed: %v", err)
	}

	if asset.ManualPrice {
		t.Fatal("new physical asset must not be marked as manually priced")
	}

	before := asset.LastUpdated
	asset.UpdateMarketPrice(NewDecimalFromInt(55))

	if !asset.ManualPrice {
		t.Error("UpdateMarketPrice must set the manual override flag")
	}
	if asset.CurrentMarketPrice == nil || !asset.CurrentMarketPrice.Equal(NewDecimalFromInt(55)) {
		t.Errorf("CurrentMarketPrice = %v, want 55", asset.CurrentMarketPrice)
	}
	if asset.LastUpdated.Before(before) {
		t.Error("LastUpdated must not move backwards")
	}

	v, err := asset.Valuation()
	if err != nil {
		t.Fatalf("Valuation failed: %v", err)
	}
	if !v.CurrentValue.Equal(NewDecimalFromInt(5500)) {
		t.Errorf("CurrentValue after update = %s, want 5500", v.CurrentValue)
	}
}

func TestTradableAsset_UpdateQuote(t *testing.T) {
	asset, err := NewTradableAsset("Apple Inc.", AssetTypeStock, "AAPL", "NASDAQ", "USD", NewDecimalFromInt(10), NewDecimalFromInt(150))
	if err != nil {
		t.Fatalf("NewTradableAsset failed: %v", err)
	}

	if _, err := asset.Valuation(); !errors.Is(err, ErrMissingCurrentPrice) {
		t.Fatalf("expected ErrMissingCurrentPrice before first quote, got %v", err)
	}

	asset.UpdateQuote(NewDecimalFromInt(160), NewDecimalFromInt(2), MustDecimal("1.27"))

	v, err := asset.Valuation()
	if err != nil {
		t.Fatalf("Valuation failed: %v", err)
	}
	if !v.CurrentValue.Equal(NewDecimalFromInt(1600)) {
		t.Errorf("CurrentValue = %s, want 1600", v.CurrentValue)
	}
	if !v.GainLoss.Equal(NewDecimalFromInt(100)) {
		t.Errorf("GainLoss = %s, want 100", v.GainLoss)
	}
}

package listview

import (
	"fmt"

	"github.com/folioview/folioview/internal/domain"
)

// ChartState tells the card whether real price history exists. When it
// does not, the card shows an explicit unavailable state; history is
// never faked with generated data.
type ChartState string

const (
	ChartAvailable   ChartState = "available"
	ChartUnavailable ChartState = "unavailable"
)

// Callbacks are the interaction contracts the owning UI layer plugs into
// the dispatcher. OpenInsights and Manage apply to every variant;
// UpdateValue only ever reaches physical assets.
type Callbacks struct {
	OpenInsights func(asset domain.Holding)
	Manage       func(asset domain.Holding)
	UpdateValue  func(id string, price domain.Decimal) error
}

// RowProps bundles everything a card needs to render one asset: the
// classified variant, the derived valuation, chart availability and the
// wired callbacks. OnUpdateValue is nil for non-physical variants — the
// contract is enforced by not wiring the callback, not by a runtime
// check.
type RowProps struct {
	Variant   domain.Variant
	Asset     domain.Holding
	Valuation domain.Valuation
	Chart     ChartState

	OnOpenInsights func()
	OnManage       func()
	OnUpdateValue  func(price domain.Decimal) error
}

// Dispatcher maps a classified asset to its card variant and wires the
// interaction callbacks.
type Dispatcher struct {
	callbacks Callbacks
}

func NewDispatcher(callbacks Callbacks) *Dispatcher {
	return &Dispatcher{callbacks: callbacks}
}

// Dispatch produces the render props for a single asset. Valuation
// errors (a tradable asset without a quote) propagate to the caller.
func (d *Dispatcher) Dispatch(asset domain.Holding) (RowProps, error) {
	base := asset.Base()

	valuation, err := asset.Valuation()
	if err != nil {
		return RowProps{}, fmt.Errorf("valuing asset %s: %w", base.ID, err)
	}

	props := RowProps{
		Variant:   domain.Classify(base.Type),
		Asset:     asset,
		Valuation: valuation,
		Chart:     ChartUnavailable,
	}

	if cb := d.callbacks.OpenInsights; cb != nil {
		props.OnOpenInsights = func() { cb(asset) }
	}
	if cb := d.callbacks.Manage; cb != nil {
		props.OnManage = func() { cb(asset) }
	}

	switch a := asset.(type) {
	case *domain.TradableAsset:
		if a.HasChartData() {
			props.Chart = ChartAvailable
		}
	case *domain.PhysicalAsset:
		if cb := d.callbacks.UpdateValue; cb != nil {
			id := base.ID
			props.OnUpdateValue = func(price domain.Decimal) error {
				return cb(id, price)
			}
		}
	}

	return props, nil
}

package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioview/folioview/internal/domain"
)

func newTradable(t *testing.T, id string) *domain.TradableAsset {
	t.Helper()
	asset, err := domain.NewTradableAsset("Asset "+id, domain.AssetTypeStock, "SYM"+id, "NASDAQ", "USD",
		domain.NewDecimalFromInt(10), domain.NewDecimalFromInt(150))
	require.NoError(t, err)
	asset.ID = id
	asset.UpdateQuote(domain.NewDecimalFromInt(160), domain.Zero, domain.Zero)
	return asset
}

func newPhysical(t *testing.T, id string) *domain.PhysicalAsset {
	t.Helper()
	asset, err := domain.NewPhysicalAsset("Gold "+id, domain.AssetTypeGold, "g",
		domain.NewDecimalFromInt(100), domain.NewDecimalFromInt(50))
	require.NoError(t, err)
	asset.ID = id
	return asset
}

func holdings(t *testing.T, n int) []domain.Holding {
	t.Helper()
	out := make([]domain.Holding, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("asset-%02d", i)
		if i%2 == 0 {
			out = append(out, newTradable(t, id))
		} else {
			out = append(out, newPhysical(t, id))
		}
	}
	return out
}

func TestController_InitialRenderBatchMountsImmediately(t *testing.T) {
	c := NewController(Config{InitialRenderCount: 3, RenderBatchSize: 5, LookAhead: 2, ItemHeight: 100})
	c.SetAssets(holdings(t, 10))

	assert.Equal(t, Mounted, c.StateOf("asset-00"))
	assert.Equal(t, Mounted, c.StateOf("asset-01"))
	assert.Equal(t, Mounted, c.StateOf("asset-02"))

	// Look-ahead past the initial batch is placeholder, the rest unmounted.
	assert.Equal(t, Placeholder, c.StateOf("asset-03"))
	assert.Equal(t, Placeholder, c.StateOf("asset-04"))
	assert.Equal(t, Unmounted, c.StateOf("asset-05"))
	assert.Equal(t, Unmounted, c.StateOf("asset-09"))
}

func TestController_MarkVisibleMountsAndExtendsLookAhead(t *testing.T) {
	c := NewController(Config{InitialRenderCount: 2, RenderBatchSize: 10, LookAhead: 2, ItemHeight: 100})
	c.SetAssets(holdings(t, 12))

	c.MarkVisible(5, 7)

	for i := 5; i <= 7; i++ {
		assert.Equal(t, Mounted, c.StateOf(fmt.Sprintf("asset-%02d", i)), "row %d", i)
	}
	assert.Equal(t, Placeholder, c.StateOf("asset-08"))
	assert.Equal(t, Placeholder, c.StateOf("asset-09"))
	assert.Equal(t, Unmounted, c.StateOf("asset-10"))
}

func TestController_MountStateIsMonotonic(t *testing.T) {
	c := NewController(DefaultConfig())
	assets := holdings(t, 30)
	c.SetAssets(assets)

	c.MarkVisible(20, 24)
	require.Equal(t, Mounted, c.StateOf("asset-22"))

	// Scrolling back to the top must not demote previously mounted rows.
	c.MarkVisible(0, 4)
	assert.Equal(t, Mounted, c.StateOf("asset-22"))

	// Neither does a reload with the same collection.
	c.SetAssets(assets)
	assert.Equal(t, Mounted, c.StateOf("asset-22"))
}

func TestController_ReloadPreservesSurvivorsDropsRemoved(t *testing.T) {
	c := NewController(Config{InitialRenderCount: 1, RenderBatchSize: 10, LookAhead: 0, ItemHeight: 100})
	assets := holdings(t, 6)
	c.SetAssets(assets)
	c.MarkVisible(4, 5)

	require.Equal(t, Mounted, c.StateOf("asset-04"))
	require.Equal(t, Mounted, c.StateOf("asset-05"))

	// Reload without asset-05: its row state is discarded, no error.
	c.SetAssets(assets[:5])
	assert.Equal(t, Mounted, c.StateOf("asset-04"))
	assert.Equal(t, 5, c.Len())

	// If the same ID comes back it starts over as a fresh row.
	c.SetAssets(assets)
	assert.Equal(t, Unmounted, c.StateOf("asset-05"))
}

func TestController_DuplicateIDsLastOneWins(t *testing.T) {
	c := NewController(DefaultConfig())

	first := newTradable(t, "dup")
	second := newPhysical(t, "dup")

	assert.NotPanics(t, func() {
		c.SetAssets([]domain.Holding{first, second, newTradable(t, "other")})
	})

	snap := c.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "dup", snap.Rows[0].ID)
	assert.Same(t, second, snap.Rows[0].Asset)
}

func TestController_ItemLayoutIsUniform(t *testing.T) {
	c := NewController(Config{InitialRenderCount: 1, RenderBatchSize: 1, LookAhead: 1, ItemHeight: 172})
	c.SetAssets(holdings(t, 4))

	// Same nominal height for every row, chart-bearing card or not.
	for i := 0; i < 4; i++ {
		layout, err := c.ItemLayout(i)
		require.NoError(t, err)
		assert.Equal(t, Layout{Offset: i * 172, Length: 172}, layout)
	}

	_, err := c.ItemLayout(4)
	assert.Error(t, err)
	_, err = c.ItemLayout(-1)
	assert.Error(t, err)
}

func TestController_EmptyCollectionRequestsEmptyState(t *testing.T) {
	c := NewController(DefaultConfig())

	snap := c.Snapshot()
	assert.True(t, snap.Empty)
	assert.Empty(t, snap.Rows)

	c.SetAssets(holdings(t, 2))
	snap = c.Snapshot()
	assert.False(t, snap.Empty)
	assert.Len(t, snap.Rows, 2)

	// Emptying out the collection flips back to the empty slot.
	c.SetAssets(nil)
	assert.True(t, c.Snapshot().Empty)
}

func TestController_KeyForIsStable(t *testing.T) {
	c := NewController(DefaultConfig())
	asset := newPhysical(t, "stable-id")

	key := c.KeyFor(asset)
	asset.UpdateMarketPrice(domain.NewDecimalFromInt(60))
	asset.Name = "renamed"

	assert.Equal(t, key, c.KeyFor(asset))
	assert.Equal(t, "stable-id", key)
}

func TestController_MarkVisibleClampsRange(t *testing.T) {
	c := NewController(Config{InitialRenderCount: 1, RenderBatchSize: 50, LookAhead: 2, ItemHeight: 100})
	c.SetAssets(holdings(t, 3))

	assert.NotPanics(t, func() {
		c.MarkVisible(-5, 40)
		c.MarkVisible(2, 1) // inverted range ignored
	})
	assert.Equal(t, Mounted, c.StateOf("asset-02"))
}

func TestController_ConfigNormalization(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, DefaultConfig(), c.Config())
}

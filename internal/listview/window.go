// Package listview owns the rendering policy for the asset feed: which
// rows carry a full card, which carry a lightweight placeholder, and how
// classified assets map to card variants and interaction callbacks.
package listview

import (
	"fmt"
	"sync"

	"github.com/folioview/folioview/internal/domain"
)

// MountState is the per-row lifecycle. Transitions are strictly forward:
// Unmounted -> Placeholder -> Mounted. A mounted row never reverts, even
// when scrolled off-screen; remount flicker costs more than the retained
// memory.
type MountState int

const (
	Unmounted MountState = iota
	Placeholder
	Mounted
)

func (s MountState) String() string {
	switch s {
	case Placeholder:
		return "placeholder"
	case Mounted:
		return "mounted"
	default:
		return "unmounted"
	}
}

// Config holds the windowing parameters handed to the scrolling
// container.
type Config struct {
	// InitialRenderCount rows are mounted immediately when a collection
	// arrives, before any visibility signal.
	InitialRenderCount int
	// RenderBatchSize caps how many extra rows are promoted per
	// visibility pass.
	RenderBatchSize int
	// LookAhead rows past the visible range are kept as placeholders so
	// scrolling into them is cheap.
	LookAhead int
	// ItemHeight is the nominal row height in display points. Every row
	// reports this height regardless of variant; the uniform-height
	// approximation keeps scroll-offset math trivial and is a documented
	// policy, not a defect.
	ItemHeight int
}

// DefaultConfig mirrors the windowing defaults of the mobile list.
func DefaultConfig() Config {
	return Config{
		InitialRenderCount: 10,
		RenderBatchSize:    10,
		LookAhead:          5,
		ItemHeight:         172,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.InitialRenderCount <= 0 {
		c.InitialRenderCount = d.InitialRenderCount
	}
	if c.RenderBatchSize <= 0 {
		c.RenderBatchSize = d.RenderBatchSize
	}
	if c.LookAhead < 0 {
		c.LookAhead = d.LookAhead
	}
	if c.ItemHeight <= 0 {
		c.ItemHeight = d.ItemHeight
	}
	return c
}

// Layout is the scroll-offset contribution of a single row.
type Layout struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Row is one entry of a feed snapshot.
type Row struct {
	ID    string         `json:"id"`
	Index int            `json:"index"`
	State MountState     `json:"-"`
	Asset domain.Holding `json:"-"`
}

// Snapshot is what the controller emits per render pass: either the
// ordered rows, or an explicit request for the empty-state slot. The
// controller never silently renders zero rows.
type Snapshot struct {
	Empty bool
	Rows  []Row
}

// Controller decides, per row, whether the full card or a placeholder is
// rendered, and retains that decision across reloads. Row state is keyed
// by asset ID, the only state the controller owns; the backing
// collection belongs to the store and is replaced wholesale on reload.
type Controller struct {
	mu     sync.Mutex
	cfg    Config
	order  []string
	assets map[string]domain.Holding
	states map[string]MountState
}

func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:    cfg.normalized(),
		assets: make(map[string]domain.Holding),
		states: make(map[string]MountState),
	}
}

// Config returns the windowing parameters for the scrolling container.
func (c *Controller) Config() Config {
	return c.cfg
}

// KeyFor is the stable key extractor: row identity is the asset ID and
// survives any change to the other fields.
func (c *Controller) KeyFor(h domain.Holding) string {
	return h.Base().ID
}

// SetAssets replaces the backing collection, as a pull-to-refresh or
// store reload does. Surviving IDs keep their mount state so a refresh
// never resets an already-mounted card; IDs that vanished are dropped
// along with their state. Duplicate IDs collapse to the last occurrence.
// Rows inside the initial render batch are mounted immediately.
func (c *Controller) SetAssets(assets []domain.Holding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[string]domain.Holding, len(assets))
	order := make([]string, 0, len(assets))
	for _, a := range assets {
		id := a.Base().ID
		if _, seen := next[id]; !seen {
			order = append(order, id)
		}
		next[id] = a
	}

	for id := range c.states {
		if _, ok := next[id]; !ok {
			delete(c.states, id)
		}
	}

	c.assets = next
	c.order = order

	for i, id := range order {
		if i >= c.cfg.InitialRenderCount {
			break
		}
		c.promote(id, Mounted)
	}
	c.extendPlaceholders(c.cfg.InitialRenderCount - 1)
}

// MarkVisible reports that rows in [first, last] entered the viewport.
// Visible rows mount; rows within the look-ahead window behind them are
// promoted to placeholders. Out-of-range indices are clamped, an
// inverted range is ignored.
func (c *Controller) MarkVisible(first, last int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) == 0 || last < first {
		return
	}
	if first < 0 {
		first = 0
	}
	if last >= len(c.order) {
		last = len(c.order) - 1
	}

	promoted := 0
	for i := first; i <= last; i++ {
		id := c.order[i]
		if c.states[id] != Mounted {
			if promoted >= c.cfg.RenderBatchSize {
				break
			}
			promoted++
		}
		c.promote(id, Mounted)
	}
	c.extendPlaceholders(last)
}

// ItemLayout reports the scroll offset and length for the row at index.
// Every row reports the same nominal height regardless of what the card
// actually renders.
func (c *Controller) ItemLayout(index int) (Layout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.order) {
		return Layout{}, fmt.Errorf("row index %d out of range [0,%d)", index, len(c.order))
	}
	return Layout{
		Offset: index * c.cfg.ItemHeight,
		Length: c.cfg.ItemHeight,
	}, nil
}

// StateOf returns the mount state for an asset ID. Unknown IDs report
// Unmounted.
func (c *Controller) StateOf(id string) MountState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[id]
}

// Len is the current row count.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Snapshot emits the current render pass.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.order) == 0 {
		return Snapshot{Empty: true}
	}

	rows := make([]Row, 0, len(c.order))
	for i, id := range c.order {
		rows = append(rows, Row{
			ID:    id,
			Index: i,
			State: c.states[id],
			Asset: c.assets[id],
		})
	}
	return Snapshot{Rows: rows}
}

// promote advances a row's state, never backwards.
func (c *Controller) promote(id string, to MountState) {
	if c.states[id] < to {
		c.states[id] = to
	}
}

// extendPlaceholders promotes the look-ahead window past lastIndex.
func (c *Controller) extendPlaceholders(lastIndex int) {
	for i := lastIndex + 1; i <= lastIndex+c.cfg.LookAhead && i < len(c.order); i++ {
		if i < 0 {
			continue
		}
		c.promote(c.order[i], Placeholder)
	}
}

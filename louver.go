// Package louver virtualizes very large, variable-height, scrollable row
// lists. Given a row count, per-row height lookups, and a scroll anchor
// describing which row should sit at the top or bottom of a viewport, it
// computes exactly which rows must be materialized, the pixel offset of
// each, the current and maximum scroll position, and a stable reusable slot
// id per materialized row, so a rendering layer can recycle its visual
// objects instead of recreating them on every scroll tick.
//
// The package is rendering-agnostic and performs no I/O. State is threaded
// explicitly: ComputeWindow consumes the previous Window and returns the
// next one. Per-call cost is O((buffer+visible) * log rowCount), so lists
// with millions of rows scroll at the same speed as small ones.
package louver

// Config carries the numeric inputs the windowing function needs. The
// values come from external collaborators (table configuration, viewport
// measurement) and are supplied fresh on every call; the core never caches
// them.
type Config struct {
	// RowCount is the total number of rows in the list. Negative counts
	// are treated as zero.
	RowCount int

	// RowHeight returns the height of row i in pixels. A nil getter
	// measures every row at DefaultRowHeight.
	RowHeight func(i int) float64

	// SubRowHeight returns extra height attached below row i (expanded
	// detail panes and the like), summed into the row's measured height.
	// May be nil.
	SubRowHeight func(i int) float64

	// BufferRows is how many extra rows to keep materialized on each side
	// of the visible range to absorb fast scrolling. Negative values are
	// treated as zero.
	BufferRows int

	// ViewportHeight is the visible height of the list in pixels.
	ViewportHeight float64

	// DefaultRowHeight is the estimate used for rows that have never been
	// measured. It seeds the offset tree on first use and after a row
	// count change. Negative estimates are treated as zero.
	DefaultRowHeight float64
}

// measure returns the current height of row i: the row getter plus the
// sub-row getter, floored at zero.
func (c Config) measure(i int) float64 {
	h := c.DefaultRowHeight
	if c.RowHeight != nil {
		h = c.RowHeight(i)
	}
	if c.SubRowHeight != nil {
		h += c.SubRowHeight(i)
	}
	if h < 0 {
		h = 0
	}
	return h
}

// Window is the snapshot ComputeWindow returns: everything a rendering
// layer needs to draw one frame of the list.
type Window struct {
	// Rows is the buffered range, ascending: every row the renderer must
	// have materialized. Empty only when the list is empty.
	Rows []int

	// Offsets maps each buffered row to the pixel offset of its top edge
	// from the start of the list.
	Offsets map[int]float64

	// ScrollY is the scroll position, always within [0, MaxScrollY].
	ScrollY float64

	// MaxScrollY is max(0, ContentHeight - viewport height).
	MaxScrollY float64

	// ContentHeight is the total pixel height of all rows.
	ContentHeight float64

	// FirstRow and FirstOffset are the forward anchor the window settled
	// on: row FirstRow's top edge sits FirstOffset pixels from the
	// viewport top (normally <= 0, meaning partially scrolled off).
	FirstRow    int
	FirstOffset float64

	// Heights records the last measured height of every row; for buffered
	// rows it equals the weight most recently written to Tree.
	Heights []float64

	// Tree and Slots persist across calls under the window's ownership.
	// They are rebuilt only when the row count changes.
	Tree  *OffsetTree
	Slots *SlotAllocator
}

// Slot returns the slot id bound to row, or false if the row is not in the
// buffered range.
func (w Window) Slot(row int) (int, bool) {
	if w.Slots == nil {
		return 0, false
	}
	return w.Slots.PositionOf(row)
}

// InvalidateRows marks the given rows' stored heights stale, forcing the
// next ComputeWindow to re-measure them even though they are already inside
// the buffered range. Call it when a data mutation changes row content.
// Out-of-range rows are ignored.
func (w *Window) InvalidateRows(rows ...int) {
	for _, i := range rows {
		if i >= 0 && i < len(w.Heights) {
			w.Heights[i] = -1
		}
	}
}

// InvalidateAll marks every row's stored height stale. Buffered rows are
// re-measured on the next ComputeWindow; the rest heal as they enter.
func (w *Window) InvalidateAll() {
	for i := range w.Heights {
		w.Heights[i] = -1
	}
}

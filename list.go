package louver

// List is a stateful wrapper around ComputeWindow for callers that own a
// single list and want imperative scrolling. It holds the current Config
// and Window and recomputes after every movement. Callers threading state
// through their own event loop can use ComputeWindow directly instead.
type List struct {
	cfg Config
	win Window
}

// NewList creates a list and computes its initial window at the top.
func NewList(cfg Config) *List {
	l := &List{cfg: cfg}
	l.win = computeWindow(Window{}, FirstRow(0, 0), cfg)
	return l
}

// Window returns the current snapshot.
func (l *List) Window() Window {
	return l.win
}

// Config returns the configuration the current window was computed with.
func (l *List) Config() Config {
	return l.cfg
}

// SetConfig swaps the configuration, as on a viewport resize, and
// recomputes the window at the current anchor.
func (l *List) SetConfig(cfg Config) *List {
	l.cfg = cfg
	return l.refresh()
}

// SetRowCount changes the number of rows. The offset tree is rebuilt and
// rows re-measure as they come into range; the scroll position clamps into
// the new extent.
func (l *List) SetRowCount(n int) *List {
	l.cfg.RowCount = n
	return l.refresh()
}

// ScrollTo jumps to an absolute scroll position.
func (l *List) ScrollTo(y float64) *List {
	return l.apply(l.win.AnchorAt(y))
}

// ScrollBy scrolls by a relative amount, positive toward the end.
func (l *List) ScrollBy(dy float64) *List {
	return l.apply(l.win.ScrolledBy(dy))
}

// ScrollToRow pins the top of row i to the viewport top.
func (l *List) ScrollToRow(i int) *List {
	return l.apply(FirstRow(i, 0))
}

// ScrollToRowBottom pins the bottom of row i to the viewport bottom.
func (l *List) ScrollToRowBottom(i int) *List {
	return l.apply(LastRow(i, 0))
}

// EnsureVisible scrolls the minimum distance that brings row i fully into
// view; rows already in view leave the window untouched.
func (l *List) EnsureVisible(i int) *List {
	return l.apply(l.win.EnsureVisible(i, l.cfg.ViewportHeight))
}

// Invalidate marks rows for re-measurement, as after a data mutation, and
// recomputes the window at the current anchor.
func (l *List) Invalidate(rows ...int) *List {
	l.win.InvalidateRows(rows...)
	return l.refresh()
}

// InvalidateAll re-measures every buffered row.
func (l *List) InvalidateAll() *List {
	l.win.InvalidateAll()
	return l.refresh()
}

// Slot returns the slot id for row i, or false when i is outside the
// buffered range.
func (l *List) Slot(i int) (int, bool) {
	return l.win.Slot(i)
}

func (l *List) refresh() *List {
	return l.apply(FirstRow(l.win.FirstRow, l.win.FirstOffset))
}

func (l *List) apply(a Anchor) *List {
	l.win = computeWindow(l.win, a, l.cfg)
	return l
}

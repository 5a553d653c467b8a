package louver

import "errors"

// ErrNoAnchor indicates that an anchor names neither a first nor a last
// row. Anchors must be built with FirstRow or LastRow; the zero Anchor is
// not usable.
var ErrNoAnchor = errors.New("anchor names neither a first nor a last row")

type anchorKind uint8

const (
	anchorNone anchorKind = iota
	anchorFirst
	anchorLast
)

// Anchor pins one edge of the viewport to a row while the window is
// recomputed. Exactly one of the two pins applies: a first-row anchor holds
// the row at the viewport top, a last-row anchor holds it at the bottom.
type Anchor struct {
	kind   anchorKind
	index  int
	offset float64
}

// FirstRow returns an anchor pinning the top edge of row index at offset
// pixels from the viewport top. The offset is normally <= 0: a row half
// scrolled off the top sits at minus half its height. Indices beyond the
// list clamp to its tail.
func FirstRow(index int, offset float64) Anchor {
	return Anchor{kind: anchorFirst, index: index, offset: offset}
}

// LastRow returns an anchor pinning the bottom edge of row index at offset
// pixels from the viewport bottom.
func LastRow(index int, offset float64) Anchor {
	return Anchor{kind: anchorLast, index: index, offset: offset}
}

// AnchorAt returns the anchor for an absolute scroll position, as when the
// user drags the scrollbar thumb. The position clamps into [0, MaxScrollY];
// recomputing with the result reproduces it exactly.
func (w Window) AnchorAt(y float64) Anchor {
	if w.Tree == nil || w.Tree.Len() == 0 {
		return FirstRow(0, 0)
	}
	if y < 0 {
		y = 0
	}
	if y > w.MaxScrollY {
		y = w.MaxScrollY
	}
	row := w.Tree.IndexAt(y)
	return FirstRow(row, w.Tree.SumUntil(row)-y)
}

// ScrolledBy returns the anchor for a relative scroll of dy pixels, as from
// a mouse wheel or arrow key.
func (w Window) ScrolledBy(dy float64) Anchor {
	return w.AnchorAt(w.ScrollY + dy)
}

// EnsureVisible returns the anchor that scrolls the least to bring row
// fully into a viewport of the given height: rows above the window pin to
// the top, rows below pin to the bottom, rows already in full view leave
// the current anchor untouched.
func (w Window) EnsureVisible(row int, viewport float64) Anchor {
	if w.Tree == nil || w.Tree.Len() == 0 {
		return FirstRow(0, 0)
	}
	if row < 0 {
		row = 0
	} else if row >= w.Tree.Len() {
		row = w.Tree.Len() - 1
	}
	top := w.Tree.SumUntil(row)
	bottom := w.Tree.SumUntil(row + 1)
	switch {
	case top < w.ScrollY:
		return FirstRow(row, 0)
	case bottom > w.ScrollY+viewport:
		return LastRow(row, 0)
	default:
		return FirstRow(w.FirstRow, w.FirstOffset)
	}
}

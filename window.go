package louver

// ComputeWindow advances the list by one event: a scroll, a viewport
// resize, or a data change. It resolves the anchor against the offset tree,
// expands it to the visible range, widens that by the configured buffer,
// re-measures rows entering the range, recomputes the scroll metrics, and
// reconciles the slot pool, returning the complete next snapshot.
//
// The previous window is consumed: its Tree, Slots, and Heights are updated
// in place under exclusive ownership and carried into the result, while
// Rows and Offsets are freshly allocated. Callers comparing snapshots must
// not retain the nested state of the old one.
//
// The zero Anchor returns ErrNoAnchor. Anchor indices beyond the list clamp
// to its tail; a scroll position that lands outside [0, MaxScrollY] is
// clamped and the window re-derived so the returned rows always match the
// returned position.
func ComputeWindow(prev Window, anchor Anchor, cfg Config) (Window, error) {
	if anchor.kind == anchorNone {
		return Window{}, ErrNoAnchor
	}
	return computeWindow(prev, anchor, cfg), nil
}

// computeWindow assumes the anchor is valid.
func computeWindow(prev Window, anchor Anchor, cfg Config) Window {
	rowCount := cfg.RowCount
	if rowCount < 0 {
		rowCount = 0
	}
	buffer := cfg.BufferRows
	if buffer < 0 {
		buffer = 0
	}
	estimate := cfg.DefaultRowHeight
	if estimate < 0 {
		estimate = 0
	}

	next := Window{
		Heights: prev.Heights,
		Tree:    prev.Tree,
		Slots:   prev.Slots,
	}
	if next.Slots == nil {
		next.Slots = NewSlotAllocator(0)
	}

	// Row count changes rebuild the tree at the default estimate, an O(n)
	// cost accepted because data reshapes are rare next to scroll events.
	// Rows re-measure as they come into range afterwards.
	rebuilt := false
	if next.Tree == nil || next.Tree.Len() != rowCount {
		next.Tree = UniformOffsetTree(rowCount, estimate)
		next.Heights = uniformHeights(rowCount, estimate)
		rebuilt = true
	}
	tree := next.Tree

	if rowCount == 0 {
		next.Offsets = map[int]float64{}
		reconcileSlots(next.Slots, nil)
		return next
	}

	// Step 1: resolve the anchor to a first row and on-screen offset.
	first, firstOffset := resolveAnchor(tree, anchor, cfg.ViewportHeight)

	// Rows carried over from the previous window keep their measurements;
	// after a rebuild nothing is carried.
	wasBuffered := make(map[int]bool, len(prev.Rows))
	if !rebuilt {
		for _, i := range prev.Rows {
			wasBuffered[i] = true
		}
	}

	var (
		rows    []int
		offsets map[int]float64
		scrollY float64
	)
	for pass := 0; ; pass++ {
		// Steps 2-3: cover the viewport from the anchor row, then widen
		// by the buffer and clip to the list.
		endY := tree.SumUntil(first) - firstOffset + cfg.ViewportHeight
		last := tree.lastBefore(endY)
		if last < first {
			last = first
		}
		lo := first - buffer
		if lo < 0 {
			lo = 0
		}
		hi := last + buffer
		if hi > rowCount-1 {
			hi = rowCount - 1
		}

		// Step 4: measure rows entering the range (or invalidated ones)
		// and push changed heights into the tree. Rows already buffered
		// with a valid measurement are left alone.
		for i := lo; i <= hi; i++ {
			if wasBuffered[i] && next.Heights[i] >= 0 {
				continue
			}
			if h := cfg.measure(i); h != next.Heights[i] {
				next.Heights[i] = h
				tree.Set(i, h)
			}
		}

		// Step 5: cumulative offsets for the buffered range.
		rows = make([]int, 0, hi-lo+1)
		offsets = make(map[int]float64, hi-lo+1)
		for i := lo; i <= hi; i++ {
			rows = append(rows, i)
			offsets[i] = tree.SumUntil(i)
		}

		// Step 6: scroll metrics against the re-measured tree. If
		// clamping moves the position, the anchor no longer matches it:
		// re-derive the anchor from the clamped position and recompute
		// the range once more.
		next.ContentHeight = tree.Total()
		next.MaxScrollY = next.ContentHeight - cfg.ViewportHeight
		if next.MaxScrollY < 0 {
			next.MaxScrollY = 0
		}
		scrollY = tree.SumUntil(first) - firstOffset
		clamped := clamp(scrollY, 0, next.MaxScrollY)
		if clamped == scrollY || pass > 0 {
			scrollY = clamped
			break
		}
		scrollY = clamped
		first = tree.IndexAt(scrollY)
		firstOffset = tree.SumUntil(first) - scrollY
	}

	// Step 7: free slots of departed rows first, so entering rows can
	// reuse them.
	reconcileSlots(next.Slots, rows)

	next.Rows = rows
	next.Offsets = offsets
	next.ScrollY = scrollY
	next.FirstRow = first
	next.FirstOffset = firstOffset
	return next
}

// resolveAnchor converts either anchor form into a first row plus its
// on-screen offset. Last-row anchors pin the row's bottom edge to the
// viewport bottom and re-derive the forward equivalent through the tree's
// inverse query, so both directions share one primitive.
func resolveAnchor(tree *OffsetTree, a Anchor, viewport float64) (first int, firstOffset float64) {
	idx := a.index
	if idx < 0 {
		idx = 0
	} else if idx >= tree.Len() {
		idx = tree.Len() - 1
	}
	if a.kind == anchorFirst {
		return idx, a.offset
	}
	y := tree.SumUntil(idx+1) - viewport - a.offset
	if y < 0 {
		y = 0
	}
	first = tree.IndexAt(y)
	return first, tree.SumUntil(first) - y
}

// reconcileSlots releases every tracked row absent from the wanted range,
// then assigns slots to the newcomers. The pool grows to the range size
// first, so a correctly ordered reconcile can never exhaust it.
func reconcileSlots(slots *SlotAllocator, rows []int) {
	if n := len(rows) - slots.Cap(); n > 0 {
		slots.Grow(n)
	}
	wanted := make(map[int]bool, len(rows))
	for _, i := range rows {
		wanted[i] = true
	}
	for _, key := range slots.Tracked() {
		if !wanted[key] {
			slots.Release(key)
		}
	}
	for _, i := range rows {
		slots.Assign(i)
	}
}

func uniformHeights(n int, h float64) []float64 {
	heights := make([]float64, n)
	for i := range heights {
		heights[i] = h
	}
	return heights
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

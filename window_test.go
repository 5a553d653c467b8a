package louver

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// testConfig is the shared fixture: 80 rows of height 125, a 600px
// viewport, and 2 buffer rows each side.
func testConfig() Config {
	return Config{
		RowCount:         80,
		RowHeight:        func(int) float64 { return 125 },
		BufferRows:       2,
		ViewportHeight:   600,
		DefaultRowHeight: 125,
	}
}

func rangeInts(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// checkWindow verifies the structural invariants every snapshot must hold:
// scroll position within bounds, rows contiguous and ascending, offsets and
// slots covering exactly the buffered range, and the anchor consistent with
// the scroll position.
func checkWindow(t *testing.T, w Window) {
	t.Helper()
	if w.ScrollY < 0 || w.ScrollY > w.MaxScrollY {
		t.Errorf("expected scrollY within [0,%v], got %v", w.MaxScrollY, w.ScrollY)
	}
	for i := 1; i < len(w.Rows); i++ {
		if w.Rows[i] != w.Rows[i-1]+1 {
			t.Errorf("expected contiguous rows, got %v", w.Rows)
			break
		}
	}
	if len(w.Offsets) != len(w.Rows) {
		t.Errorf("expected %d offsets, got %d", len(w.Rows), len(w.Offsets))
	}
	for _, i := range w.Rows {
		if got, want := w.Offsets[i], w.Tree.SumUntil(i); got != want {
			t.Errorf("expected offset %v for row %d, got %v", want, i, got)
		}
		if _, ok := w.Slot(i); !ok {
			t.Errorf("expected a slot for buffered row %d", i)
		}
	}
	if w.Slots.Len() != len(w.Rows) {
		t.Errorf("expected %d tracked slots, got %d", len(w.Rows), w.Slots.Len())
	}
	if len(w.Rows) > 0 {
		if diff := w.Offsets[w.FirstRow] - w.ScrollY - w.FirstOffset; math.Abs(diff) > 1e-9 {
			t.Errorf("expected firstOffset %v to match offset-scrollY, off by %v", w.FirstOffset, diff)
		}
	}
}

func TestComputeWindow(t *testing.T) {
	t.Run("top anchor with partial offset", func(t *testing.T) {
		w, err := ComputeWindow(Window{}, FirstRow(15, -25), testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if want := rangeInts(13, 21); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
		if w.ScrollY != 1900 {
			t.Errorf("expected scrollY 1900, got %v", w.ScrollY)
		}
		if w.MaxScrollY != 9400 {
			t.Errorf("expected maxScrollY 9400, got %v", w.MaxScrollY)
		}
		if w.ContentHeight != 10000 {
			t.Errorf("expected contentHeight 10000, got %v", w.ContentHeight)
		}
		if w.FirstRow != 15 || w.FirstOffset != -25 {
			t.Errorf("expected anchor 15/-25, got %d/%v", w.FirstRow, w.FirstOffset)
		}
		if got := w.Offsets[13]; got != 1625 {
			t.Errorf("expected offset 1625 for row 13, got %v", got)
		}
		if _, ok := w.Slot(12); ok {
			t.Error("expected no slot for row outside the buffered range")
		}
	})

	t.Run("bottom anchor resolves a forward equivalent", func(t *testing.T) {
		w, err := ComputeWindow(Window{}, LastRow(30, 0), testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if w.FirstRow != 26 {
			t.Errorf("expected firstRow 26, got %d", w.FirstRow)
		}
		if want := rangeInts(24, 32); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
		if w.ScrollY != 3275 {
			t.Errorf("expected scrollY 3275, got %v", w.ScrollY)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		cfg := testConfig()
		cfg.RowCount = 0

		// Arrive from a populated state so slot cleanup is exercised too.
		prev, _ := ComputeWindow(Window{}, FirstRow(15, -25), testConfig())
		w, err := ComputeWindow(prev, FirstRow(15, -25), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(w.Rows) != 0 {
			t.Errorf("expected no rows, got %v", w.Rows)
		}
		if len(w.Offsets) != 0 {
			t.Errorf("expected no offsets, got %v", w.Offsets)
		}
		if w.ScrollY != 0 || w.MaxScrollY != 0 || w.ContentHeight != 0 {
			t.Errorf("expected zeroed metrics, got scrollY=%v maxScrollY=%v content=%v",
				w.ScrollY, w.MaxScrollY, w.ContentHeight)
		}
		if got := w.Slots.Len(); got != 0 {
			t.Errorf("expected all slots released, got %d tracked", got)
		}
	})

	t.Run("anchor beyond the end clamps to the tail", func(t *testing.T) {
		w, err := ComputeWindow(Window{}, FirstRow(90, 0), testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if want := rangeInts(73, 79); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
		if w.ScrollY != 9400 || w.ScrollY != w.MaxScrollY {
			t.Errorf("expected scrollY pinned to maxScrollY 9400, got %v/%v", w.ScrollY, w.MaxScrollY)
		}
	})

	t.Run("clamped scroll re-derives the anchor", func(t *testing.T) {
		w, err := ComputeWindow(Window{}, FirstRow(79, 0), testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if w.ScrollY != 9400 {
			t.Errorf("expected scrollY 9400, got %v", w.ScrollY)
		}
		if w.FirstRow != 75 || w.FirstOffset != -25 {
			t.Errorf("expected re-derived anchor 75/-25, got %d/%v", w.FirstRow, w.FirstOffset)
		}
		if want := rangeInts(73, 79); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
	})

	t.Run("positive offset clamps at the top", func(t *testing.T) {
		w, err := ComputeWindow(Window{}, FirstRow(0, 10), testConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if w.ScrollY != 0 || w.FirstRow != 0 || w.FirstOffset != 0 {
			t.Errorf("expected settled top, got scrollY=%v anchor=%d/%v", w.ScrollY, w.FirstRow, w.FirstOffset)
		}
	})

	t.Run("only entering rows are re-measured", func(t *testing.T) {
		cfg := testConfig()
		prev, _ := ComputeWindow(Window{}, FirstRow(15, -25), cfg)

		calls := 0
		cfg.RowHeight = func(int) float64 {
			calls++
			return 200
		}
		w, err := ComputeWindow(prev, FirstRow(30, 0), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if want := rangeInts(28, 36); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
		if calls != 9 {
			t.Errorf("expected 9 height lookups for 9 entering rows, got %d", calls)
		}
		for _, i := range w.Rows {
			if w.Heights[i] != 200 {
				t.Errorf("expected row %d re-measured to 200, got %v", i, w.Heights[i])
			}
		}
		for i := 13; i <= 21; i++ {
			if w.Heights[i] != 125 {
				t.Errorf("expected departed row %d to keep height 125, got %v", i, w.Heights[i])
			}
		}
		if want := 80*125 + 9*75.0; w.ContentHeight != want {
			t.Errorf("expected contentHeight %v, got %v", want, w.ContentHeight)
		}
		if want := 28*125 + 2*200.0; w.ScrollY != want {
			t.Errorf("expected scrollY %v against new offsets, got %v", want, w.ScrollY)
		}
	})

	t.Run("sub-row heights sum into the measurement", func(t *testing.T) {
		cfg := testConfig()
		cfg.SubRowHeight = func(i int) float64 {
			if i == 15 {
				return 75
			}
			return 0
		}
		w, err := ComputeWindow(Window{}, FirstRow(15, 0), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if got := w.Heights[15]; got != 200 {
			t.Errorf("expected combined height 200, got %v", got)
		}
		if got := w.Offsets[16] - w.Offsets[15]; got != 200 {
			t.Errorf("expected row 16 to start 200 below row 15, got %v", got)
		}
	})

	t.Run("single row shift reuses the vacated slot", func(t *testing.T) {
		cfg := testConfig()
		prev, _ := ComputeWindow(Window{}, FirstRow(15, -25), cfg)
		kept := map[int]int{}
		for i := 14; i <= 21; i++ {
			slot, _ := prev.Slot(i)
			kept[i] = slot
		}
		departing, _ := prev.Slot(13)

		w, err := ComputeWindow(prev, FirstRow(16, -25), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if want := rangeInts(14, 22); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
		for i := 14; i <= 21; i++ {
			if slot, _ := w.Slot(i); slot != kept[i] {
				t.Errorf("expected row %d to keep slot %d, got %d", i, kept[i], slot)
			}
		}
		if slot, _ := w.Slot(22); slot != departing {
			t.Errorf("expected entering row to reuse slot %d, got %d", departing, slot)
		}
		if _, ok := w.Slot(13); ok {
			t.Error("expected departed row to lose its slot")
		}
	})

	t.Run("row count shrink rebuilds and clamps", func(t *testing.T) {
		cfg := testConfig()
		prev, _ := ComputeWindow(Window{}, FirstRow(75, -25), cfg)

		cfg.RowCount = 40
		w, err := ComputeWindow(prev, FirstRow(prev.FirstRow, prev.FirstOffset), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if got := w.Tree.Len(); got != 40 {
			t.Errorf("expected tree rebuilt to 40 rows, got %d", got)
		}
		if got := len(w.Heights); got != 40 {
			t.Errorf("expected 40 stored heights, got %d", got)
		}
		if w.ContentHeight != 5000 || w.MaxScrollY != 4400 {
			t.Errorf("expected content 5000 / maxScrollY 4400, got %v/%v", w.ContentHeight, w.MaxScrollY)
		}
		if w.ScrollY != 4400 {
			t.Errorf("expected scrollY clamped to 4400, got %v", w.ScrollY)
		}
		if want := rangeInts(33, 39); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
	})

	t.Run("row count growth keeps the anchor", func(t *testing.T) {
		cfg := testConfig()
		prev, _ := ComputeWindow(Window{}, FirstRow(15, -25), cfg)

		cfg.RowCount = 200
		w, err := ComputeWindow(prev, FirstRow(prev.FirstRow, prev.FirstOffset), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if want := rangeInts(13, 21); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
		if w.ScrollY != 1900 || w.ContentHeight != 25000 {
			t.Errorf("expected scrollY 1900 / content 25000, got %v/%v", w.ScrollY, w.ContentHeight)
		}
	})

	t.Run("invalidated rows re-measure in place", func(t *testing.T) {
		cfg := testConfig()
		prev, _ := ComputeWindow(Window{}, FirstRow(15, -25), cfg)

		calls := 0
		cfg.RowHeight = func(i int) float64 {
			calls++
			if i == 15 {
				return 300
			}
			return 125
		}
		prev.InvalidateRows(15)
		w, err := ComputeWindow(prev, FirstRow(15, -25), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if calls != 1 {
			t.Errorf("expected 1 height lookup for the invalidated row, got %d", calls)
		}
		if got := w.Heights[15]; got != 300 {
			t.Errorf("expected height 300, got %v", got)
		}
		if w.ContentHeight != 10175 {
			t.Errorf("expected contentHeight 10175, got %v", w.ContentHeight)
		}
		if w.ScrollY != 1900 {
			t.Errorf("expected scrollY 1900 (rows above unchanged), got %v", w.ScrollY)
		}
		if got := w.Offsets[16]; got != 2175 {
			t.Errorf("expected row 16 pushed to 2175, got %v", got)
		}
	})

	t.Run("zero anchor is rejected", func(t *testing.T) {
		_, err := ComputeWindow(Window{}, Anchor{}, testConfig())
		if !errors.Is(err, ErrNoAnchor) {
			t.Errorf("expected ErrNoAnchor, got %v", err)
		}
	})

	t.Run("extreme anchors stay clamped", func(t *testing.T) {
		anchors := []Anchor{
			FirstRow(-5, 0),
			FirstRow(1000, -1e9),
			FirstRow(3, 1e9),
			LastRow(-3, 1e9),
			LastRow(10000, 0),
			LastRow(0, -1e9),
		}
		for _, a := range anchors {
			w, err := ComputeWindow(Window{}, a, testConfig())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			checkWindow(t, w)
		}
	})

	t.Run("negative buffer is treated as zero", func(t *testing.T) {
		cfg := testConfig()
		cfg.BufferRows = -3
		w, err := ComputeWindow(Window{}, FirstRow(15, -25), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		if want := rangeInts(15, 19); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected bare visible range %v, got %v", want, w.Rows)
		}
		if w.ScrollY != 1900 {
			t.Errorf("expected scrollY 1900, got %v", w.ScrollY)
		}
	})

	t.Run("negative default height seeds at zero", func(t *testing.T) {
		cfg := testConfig()
		cfg.DefaultRowHeight = -40
		w, err := ComputeWindow(Window{}, FirstRow(15, -25), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkWindow(t, w)
		// Unmeasured rows weigh the floored estimate, so the first cover
		// after the rebuild runs to the end of the list.
		if want := rangeInts(13, 79); !reflect.DeepEqual(w.Rows, want) {
			t.Errorf("expected rows %v, got %v", want, w.Rows)
		}
		for i := 0; i < 13; i++ {
			if w.Heights[i] != 0 {
				t.Errorf("expected unmeasured row %d seeded at 0, got %v", i, w.Heights[i])
			}
		}
		if want := 67 * 125.0; w.ContentHeight != want {
			t.Errorf("expected contentHeight %v from measured rows only, got %v", want, w.ContentHeight)
		}
	})

	t.Run("variable heights sweep", func(t *testing.T) {
		cfg := Config{
			RowCount:         500,
			RowHeight:        func(i int) float64 { return 40 + float64(i%7)*20 },
			BufferRows:       3,
			ViewportHeight:   240,
			DefaultRowHeight: 60,
		}
		w, err := ComputeWindow(Window{}, FirstRow(0, 0), cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 600 steps of 97px outruns the largest content the lazy
		// measurements can converge on, so the sweep must end pinned to
		// the bottom.
		for step := 0; step < 600; step++ {
			w, err = ComputeWindow(w, w.ScrolledBy(97), cfg)
			if err != nil {
				t.Fatalf("step %d: unexpected error: %v", step, err)
			}
			checkWindow(t, w)
		}
		if w.ScrollY != w.MaxScrollY {
			t.Errorf("expected sweep to reach maxScrollY %v, got %v", w.MaxScrollY, w.ScrollY)
		}
		// Every buffered row has been measured by now, so the tree must
		// agree with the getter along the final window.
		for _, i := range w.Rows {
			if want := cfg.RowHeight(i); w.Heights[i] != want {
				t.Errorf("expected row %d measured at %v, got %v", i, want, w.Heights[i])
			}
		}
	})
}

func TestScrollbar(t *testing.T) {
	t.Run("proportional thumb", func(t *testing.T) {
		w, _ := ComputeWindow(Window{}, FirstRow(0, 0), testConfig())
		start, size := w.Scrollbar(50)
		if size != 3 { // 600/10000 of 50 cells, floored
			t.Errorf("expected thumb size 3, got %d", size)
		}
		if start != 0 {
			t.Errorf("expected thumb at 0, got %d", start)
		}
	})

	t.Run("bottom pins the thumb to the end", func(t *testing.T) {
		w, _ := ComputeWindow(Window{}, FirstRow(90, 0), testConfig())
		start, size := w.Scrollbar(50)
		if start+size != 50 {
			t.Errorf("expected thumb to end at 50, got %d+%d", start, size)
		}
	})

	t.Run("content fitting the viewport fills the track", func(t *testing.T) {
		cfg := testConfig()
		cfg.RowCount = 3
		w, _ := ComputeWindow(Window{}, FirstRow(0, 0), cfg)
		start, size := w.Scrollbar(40)
		if start != 0 || size != 40 {
			t.Errorf("expected full-track thumb, got %d+%d", start, size)
		}
	})

	t.Run("degenerate track", func(t *testing.T) {
		w, _ := ComputeWindow(Window{}, FirstRow(0, 0), testConfig())
		if start, size := w.Scrollbar(0); start != 0 || size != 0 {
			t.Errorf("expected empty geometry, got %d+%d", start, size)
		}
	})

	t.Run("tiny thumb never vanishes", func(t *testing.T) {
		cfg := testConfig()
		cfg.RowCount = 100000
		w, _ := ComputeWindow(Window{}, FirstRow(0, 0), cfg)
		if _, size := w.Scrollbar(20); size != 1 {
			t.Errorf("expected minimum thumb size 1, got %d", size)
		}
	})
}

func TestAnchors(t *testing.T) {
	t.Run("anchor at reproduces the position", func(t *testing.T) {
		cfg := testConfig()
		w, _ := ComputeWindow(Window{}, FirstRow(0, 0), cfg)
		for _, y := range []float64{0, 1, 124, 125, 1900, 9399.5, 9400, 1e9} {
			next, err := ComputeWindow(w, w.AnchorAt(y), cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := clamp(y, 0, next.MaxScrollY)
			if next.ScrollY != want {
				t.Errorf("expected scrollY %v after AnchorAt(%v), got %v", want, y, next.ScrollY)
			}
			w = next
		}
	})

	t.Run("ensure visible above and below", func(t *testing.T) {
		cfg := testConfig()
		w, _ := ComputeWindow(Window{}, FirstRow(15, -25), cfg)

		below, _ := ComputeWindow(w, w.EnsureVisible(40, cfg.ViewportHeight), cfg)
		if got := below.Offsets[41] - cfg.ViewportHeight; below.ScrollY != got {
			t.Errorf("expected row 40 flush with the bottom, scrollY %v, got %v", got, below.ScrollY)
		}

		above, _ := ComputeWindow(below, below.EnsureVisible(10, cfg.ViewportHeight), cfg)
		if above.ScrollY != 1250 {
			t.Errorf("expected row 10 flush with the top at 1250, got %v", above.ScrollY)
		}
	})

	t.Run("ensure visible keeps rows already in view", func(t *testing.T) {
		cfg := testConfig()
		w, _ := ComputeWindow(Window{}, FirstRow(15, 0), cfg)
		next, _ := ComputeWindow(w, w.EnsureVisible(17, cfg.ViewportHeight), cfg)
		if next.ScrollY != w.ScrollY {
			t.Errorf("expected scroll position unchanged at %v, got %v", w.ScrollY, next.ScrollY)
		}
	})
}

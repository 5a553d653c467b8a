package louver

import (
	"fmt"
	"math/bits"
)

// OffsetTree holds one non-negative weight per row and answers cumulative
// offset queries in logarithmic time. Weights are row heights in pixels;
// the sum of weights before row i is the pixel offset at which row i begins.
//
// The tree is fixed-size: it always covers exactly the rows it was built
// with. Changing the row count means building a new tree.
type OffsetTree struct {
	sums    []float64 // 1-based partial sums, Fenwick layout
	weights []float64 // raw per-row weights
	total   float64
}

// NewOffsetTree builds a tree from the given weights. O(n).
func NewOffsetTree(weights []float64) *OffsetTree {
	n := len(weights)
	t := &OffsetTree{
		sums:    make([]float64, n+1),
		weights: make([]float64, n),
	}
	copy(t.weights, weights)
	copy(t.sums[1:], weights)
	for i := 1; i <= n; i++ {
		t.total += weights[i-1]
		if j := i + (i & -i); j <= n {
			t.sums[j] += t.sums[i]
		}
	}
	return t
}

// UniformOffsetTree builds a tree of n rows all weighing weight. O(n).
func UniformOffsetTree(n int, weight float64) *OffsetTree {
	if n < 0 {
		n = 0
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = weight
	}
	return NewOffsetTree(weights)
}

// Len returns the number of rows the tree covers.
func (t *OffsetTree) Len() int {
	return len(t.weights)
}

// Get returns the weight of row i.
// Passing an out-of-range index is a caller error and panics: it means the
// caller's row count disagrees with the tree's.
func (t *OffsetTree) Get(i int) float64 {
	if i < 0 || i >= len(t.weights) {
		panic(fmt.Sprintf("louver: row %d out of range [0,%d)", i, len(t.weights)))
	}
	return t.weights[i]
}

// Set replaces the weight of row i and updates all affected partial sums.
// O(log n). Setting the same weight again is a no-op. Panics out of range.
func (t *OffsetTree) Set(i int, weight float64) {
	if i < 0 || i >= len(t.weights) {
		panic(fmt.Sprintf("louver: row %d out of range [0,%d)", i, len(t.weights)))
	}
	delta := weight - t.weights[i]
	if delta == 0 {
		return
	}
	t.weights[i] = weight
	t.total += delta
	for j := i + 1; j <= len(t.weights); j += j & -j {
		t.sums[j] += delta
	}
}

// SumUntil returns the sum of weights for rows [0, i): the pixel offset at
// which row i begins. SumUntil(Len()) equals Total. O(log n).
// Panics if i is outside [0, Len()].
func (t *OffsetTree) SumUntil(i int) float64 {
	if i < 0 || i > len(t.weights) {
		panic(fmt.Sprintf("louver: row %d out of range [0,%d]", i, len(t.weights)))
	}
	var sum float64
	for j := i; j > 0; j -= j & -j {
		sum += t.sums[j]
	}
	return sum
}

// Total returns the sum of all weights: the full content height. O(1).
func (t *OffsetTree) Total() float64 {
	return t.total
}

// IndexAt returns the row whose span [SumUntil(i), SumUntil(i+1)) contains
// the given offset. Offsets outside [0, Total()) clamp to the first or last
// row; rows with zero weight have empty spans and are skipped. Returns -1
// only when the tree is empty. O(log n).
func (t *OffsetTree) IndexAt(offset float64) int {
	n := len(t.weights)
	if n == 0 {
		return -1
	}
	i := t.descend(offset, false)
	if i >= n {
		i = n - 1
	}
	return i
}

// lastBefore returns the greatest row whose offset is strictly below the
// given one: the last row visible in a viewport ending there. Same clamping
// as IndexAt.
func (t *OffsetTree) lastBefore(offset float64) int {
	n := len(t.weights)
	if n == 0 {
		return -1
	}
	i := t.descend(offset, true)
	if i >= n {
		i = n - 1
	}
	return i
}

// descend walks the implicit tree from the root, at each level keeping the
// largest prefix whose sum stays at or below (strictly below, when strict)
// the target. The result is the greatest i with SumUntil(i) <= target
// (respectively < target), which may equal Len.
func (t *OffsetTree) descend(target float64, strict bool) int {
	if target < 0 {
		return 0
	}
	n := len(t.weights)
	pos := 0
	rem := target
	for pw := 1 << (bits.Len(uint(n)) - 1); pw > 0; pw >>= 1 {
		next := pos + pw
		if next > n {
			continue
		}
		s := t.sums[next]
		if s < rem || (!strict && s == rem) {
			pos = next
			rem -= s
		}
	}
	return pos
}

package louver

import "sort"

// SlotAllocator maps row indices onto a bounded pool of reusable integer
// slots. A slot stands in for an externally owned, expensive-to-create
// visual object; keeping the same slot bound to a row for as long as the
// row stays wanted lets the rendering layer reuse that object instead of
// rebuilding it on every scroll tick.
//
// Freed slots are recycled oldest-released-first, so when the window moves
// by a few rows per event the rows that remain in view keep their slots and
// only the slots vacated longest ago are handed to new rows.
type SlotAllocator struct {
	slots    map[int]int // row index → slot id
	freed    []int       // released slot ids, oldest first
	minted   int         // slot ids handed out so far
	capacity int
}

// NewSlotAllocator creates a pool of the given capacity.
// Negative capacities are treated as zero.
func NewSlotAllocator(capacity int) *SlotAllocator {
	if capacity < 0 {
		capacity = 0
	}
	return &SlotAllocator{
		slots:    make(map[int]int),
		capacity: capacity,
	}
}

// Cap returns the pool capacity.
func (s *SlotAllocator) Cap() int {
	return s.capacity
}

// Len returns the number of rows currently holding a slot.
func (s *SlotAllocator) Len() int {
	return len(s.slots)
}

// Grow adds n slots of capacity. Non-positive n is a no-op.
func (s *SlotAllocator) Grow(n int) {
	if n > 0 {
		s.capacity += n
	}
}

// PositionOf returns the slot bound to key, or false if key has none.
func (s *SlotAllocator) PositionOf(key int) (int, bool) {
	slot, ok := s.slots[key]
	return slot, ok
}

// Assign binds a slot to key and returns it. A key that already holds a
// slot keeps it. While unminted capacity remains a fresh slot id is used;
// after that the oldest released slot is recycled.
//
// Assigning with no slot free is a caller error and panics: the windowing
// protocol releases departed rows (and grows the pool) before assigning.
func (s *SlotAllocator) Assign(key int) int {
	if slot, ok := s.slots[key]; ok {
		return slot
	}
	var slot int
	switch {
	case s.minted < s.capacity:
		slot = s.minted
		s.minted++
	case len(s.freed) > 0:
		slot = s.freed[0]
		s.freed = s.freed[1:]
	default:
		panic("louver: slot pool exhausted; release unwanted rows before assigning")
	}
	s.slots[key] = slot
	return slot
}

// Release frees the slot bound to key, making it the newest entry in the
// reuse queue. Releasing an untracked key is a no-op.
func (s *SlotAllocator) Release(key int) {
	slot, ok := s.slots[key]
	if !ok {
		return
	}
	delete(s.slots, key)
	s.freed = append(s.freed, slot)
}

// Tracked returns the row indices currently holding slots, ascending.
func (s *SlotAllocator) Tracked() []int {
	keys := make([]int, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

package structure

// Arena is a slab allocator with generation-checked handles.
// It hands out fixed-size slots from pre-allocated blocks so that the hot
// path never touches the general-purpose heap. Slots are recycled through a
// free list threaded through the slot array itself.
//
// Design:
// - Grows by one block (BlockSize slots) when the free list is exhausted
// - Never shrinks; Reset retains capacity and invalidates all handles
// - Every slot carries a generation counter; freeing a slot bumps it, so a
//   stale handle resolves to nothing instead of someone else's order

const (
	// BlockSize is the number of slots added per expansion.
	BlockSize = 4096

	nullIndex = -1
)

// Handle is an opaque reference to an arena slot. The zero value is nil and
// never resolves.
type Handle struct {
	idx int32
	gen uint32
}

// Valid reports whether h refers to any slot at all. A valid handle may
// still be stale; Get performs the generation check.
func (h Handle) Valid() bool {
	return h.gen != 0
}

type slot[T any] struct {
	value T
	gen   uint32 // starts at 1, bumped on every Free
	next  int32  // free list link, nullIndex while live
	live  bool
}

// Arena is a growable pool of T slots. It is not safe for concurrent use.
type Arena[T any] struct {
	slots    []slot[T]
	freeHead int32
	live     int32
	onGrow   func(oldCap, newCap int)
}

// NewArena creates an arena with one block pre-allocated.
func NewArena[T any]() *Arena[T] {
	a := &Arena[T]{freeHead: nullIndex}
	a.grow()
	return a
}

// SetOnGrow registers a callback invoked whenever the arena expands.
func (a *Arena[T]) SetOnGrow(fn func(oldCap, newCap int)) {
	a.onGrow = fn
}

// grow appends one block of slots and threads them onto the free list.
func (a *Arena[T]) grow() {
	oldCap := len(a.slots)
	newCap := oldCap + BlockSize

	if a.onGrow != nil {
		a.onGrow(oldCap, newCap)
	}

	a.slots = append(a.slots, make([]slot[T], BlockSize)...)
	for i := oldCap; i < newCap; i++ {
		a.slots[i].gen = 1
		a.slots[i].next = int32(i + 1)
	}
	a.slots[newCap-1].next = a.freeHead
	a.freeHead = int32(oldCap)
}

// Alloc returns a handle to a zero-initialized slot, expanding the arena if
// the free list is empty. Pointers previously returned by Alloc or Get are
// invalidated when an expansion occurs; re-resolve through Get after any
// Alloc if the pointer must be held across it.
func (a *Arena[T]) Alloc() (Handle, *T) {
	if a.freeHead == nullIndex {
		a.grow()
	}

	idx := a.freeHead
	s := &a.slots[idx]
	a.freeHead = s.next

	var zero T
	s.value = zero
	s.next = nullIndex
	s.live = true
	a.live++

	return Handle{idx: idx, gen: s.gen}, &s.value
}

// Get resolves a handle to its slot. It returns false for the nil handle,
// a freed slot, or a handle that outlived a Reset.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if h.idx < 0 || int(h.idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.idx]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.value, true
}

// Free returns the slot to the free list and invalidates the handle.
// Freeing a nil, stale, or already-freed handle returns false.
func (a *Arena[T]) Free(h Handle) bool {
	if h.idx < 0 || int(h.idx) >= len(a.slots) {
		return false
	}
	s := &a.slots[h.idx]
	if !s.live || s.gen != h.gen {
		return false
	}

	s.live = false
	s.gen++
	s.next = a.freeHead
	a.freeHead = h.idx
	a.live--
	return true
}

// Reset returns every slot to the free list, invalidating all outstanding
// handles. Capacity is retained.
func (a *Arena[T]) Reset() {
	var zero T
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			s.live = false
			s.value = zero
		}
		s.gen++
		s.next = int32(i + 1)
	}
	if len(a.slots) > 0 {
		a.slots[len(a.slots)-1].next = nullIndex
		a.freeHead = 0
	} else {
		a.freeHead = nullIndex
	}
	a.live = 0
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	return int(a.live)
}

// Cap returns the total number of slots across all blocks.
func (a *Arena[T]) Cap() int {
	return len(a.slots)
}

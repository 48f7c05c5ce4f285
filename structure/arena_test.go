package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	id    uint64
	value int64
}

func TestArenaAllocFree(t *testing.T) {
	arena := NewArena[payload]()
	assert.Equal(t, BlockSize, arena.Cap())
	assert.Equal(t, 0, arena.Len())

	h, p := arena.Alloc()
	require.True(t, h.Valid())
	assert.Equal(t, payload{}, *p, "slots must be zero-initialized")
	p.id = 42

	got, ok := arena.Get(h)
	require.True(t, ok)
	assert.Equal(t, uint64(42), got.id)
	assert.Equal(t, 1, arena.Len())

	assert.True(t, arena.Free(h))
	assert.Equal(t, 0, arena.Len())

	_, ok = arena.Get(h)
	assert.False(t, ok, "freed handle must not resolve")
	assert.False(t, arena.Free(h), "double free must be rejected")
}

func TestArenaNilHandle(t *testing.T) {
	arena := NewArena[payload]()

	var h Handle
	assert.False(t, h.Valid())

	_, ok := arena.Get(h)
	assert.False(t, ok)
	assert.False(t, arena.Free(h))
}

func TestArenaStaleHandleAfterReuse(t *testing.T) {
	arena := NewArena[payload]()

	h1, p := arena.Alloc()
	p.id = 1
	require.True(t, arena.Free(h1))

	// The same slot comes back with a new generation.
	h2, p2 := arena.Alloc()
	p2.id = 2

	_, ok := arena.Get(h1)
	assert.False(t, ok, "stale handle must not alias the reused slot")

	got, ok := arena.Get(h2)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.id)
}

func TestArenaGrowth(t *testing.T) {
	arena := NewArena[payload]()

	var grows int
	arena.SetOnGrow(func(oldCap, newCap int) {
		grows++
		assert.Equal(t, oldCap+BlockSize, newCap)
	})

	handles := make([]Handle, 0, BlockSize+1)
	for i := 0; i <= BlockSize; i++ {
		h, p := arena.Alloc()
		p.id = uint64(i)
		handles = append(handles, h)
	}

	assert.Equal(t, 1, grows)
	assert.Equal(t, 2*BlockSize, arena.Cap())
	assert.Equal(t, BlockSize+1, arena.Len())

	// Every handle must still resolve to its own value after growth.
	for i, h := range handles {
		p, ok := arena.Get(h)
		require.True(t, ok)
		assert.Equal(t, uint64(i), p.id)
	}
}

func TestArenaReset(t *testing.T) {
	arena := NewArena[payload]()

	h1, _ := arena.Alloc()
	h2, _ := arena.Alloc()
	capBefore := arena.Cap()

	arena.Reset()

	assert.Equal(t, 0, arena.Len())
	assert.Equal(t, capBefore, arena.Cap(), "reset retains capacity")

	_, ok := arena.Get(h1)
	assert.False(t, ok)
	_, ok = arena.Get(h2)
	assert.False(t, ok)

	// The arena is fully reusable after reset.
	h3, p := arena.Alloc()
	p.value = 7
	got, ok := arena.Get(h3)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.value)
}

func TestArenaFreeListReusesSlots(t *testing.T) {
	arena := NewArena[payload]()

	handles := make([]Handle, 0, 100)
	for i := 0; i < 100; i++ {
		h, _ := arena.Alloc()
		handles = append(handles, h)
	}
	for _, h := range handles {
		require.True(t, arena.Free(h))
	}

	for i := 0; i < 100; i++ {
		arena.Alloc()
	}
	assert.Equal(t, BlockSize, arena.Cap(), "recycled slots must not trigger growth")
}

package match

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsh-kumar-patwa/Scaler-HFT-2027/structure"
)

func enqueueTestOrder(b *sideBook, id uint64, price float64, qty uint64) structure.Handle {
	h, slot := b.arena.Alloc()
	slot.ID = id
	slot.Side = b.side
	slot.Price = decimal.NewFromFloat(price)
	slot.Quantity = qty
	b.enqueueOrder(h, slot)
	return h
}

func TestBidBookOrdering(t *testing.T) {
	arena := structure.NewArena[Order]()
	bids := newBidBook(arena)

	enqueueTestOrder(bids, 1, 99.0, 10)
	enqueueTestOrder(bids, 2, 101.0, 20)
	enqueueTestOrder(bids, 3, 100.0, 30)

	depth := bids.depth(10)
	require.Len(t, depth, 3)
	assert.True(t, depth[0].Price.Equal(decimal.NewFromFloat(101.0)), "bids iterate highest price first")
	assert.True(t, depth[1].Price.Equal(decimal.NewFromFloat(100.0)))
	assert.True(t, depth[2].Price.Equal(decimal.NewFromFloat(99.0)))

	price, qty, ok := bids.best()
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromFloat(101.0)))
	assert.Equal(t, uint64(20), qty)
}

func TestAskBookOrdering(t *testing.T) {
	arena := structure.NewArena[Order]()
	asks := newAskBook(arena)

	enqueueTestOrder(asks, 1, 103.0, 10)
	enqueueTestOrder(asks, 2, 101.0, 20)
	enqueueTestOrder(asks, 3, 102.0, 30)

	depth := asks.depth(10)
	require.Len(t, depth, 3)
	assert.True(t, depth[0].Price.Equal(decimal.NewFromFloat(101.0)), "asks iterate lowest price first")
	assert.True(t, depth[1].Price.Equal(decimal.NewFromFloat(102.0)))
	assert.True(t, depth[2].Price.Equal(decimal.NewFromFloat(103.0)))
}

func TestLevelAggregates(t *testing.T) {
	arena := structure.NewArena[Order]()
	bids := newBidBook(arena)

	h1 := enqueueTestOrder(bids, 1, 100.0, 10)
	enqueueTestOrder(bids, 2, 100.0, 20)
	h3 := enqueueTestOrder(bids, 3, 100.0, 30)

	lvl := bids.level(decimal.NewFromFloat(100.0))
	require.NotNil(t, lvl)
	assert.Equal(t, uint64(60), lvl.totalQuantity)
	assert.Equal(t, int64(3), lvl.count)
	assert.Equal(t, int64(1), bids.depthCount())
	assert.Equal(t, int64(3), bids.orderCount())

	// Remove from the middle of the queue.
	ord, ok := arena.Get(h1)
	require.True(t, ok)
	bids.removeOrder(h1, ord)
	assert.Equal(t, uint64(50), lvl.totalQuantity)
	assert.Equal(t, int64(2), lvl.count)

	// FIFO order must now be 2, 3.
	snap := bids.toSnapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, uint64(2), snap[0].ID)
	assert.Equal(t, uint64(3), snap[1].ID)

	ord3, ok := arena.Get(h3)
	require.True(t, ok)
	bids.removeOrder(h3, ord3)

	snap = bids.toSnapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, uint64(2), snap[0].ID)
}

func TestEmptyLevelIsRemoved(t *testing.T) {
	arena := structure.NewArena[Order]()
	asks := newAskBook(arena)

	h := enqueueTestOrder(asks, 1, 101.0, 10)
	assert.Equal(t, int64(1), asks.depthCount())

	ord, ok := arena.Get(h)
	require.True(t, ok)
	asks.removeOrder(h, ord)

	assert.Equal(t, int64(0), asks.depthCount())
	assert.Equal(t, int64(0), asks.orderCount())
	assert.Nil(t, asks.level(decimal.NewFromFloat(101.0)))

	_, _, found := asks.best()
	assert.False(t, found)
}

func TestSnapshotPreservesPriority(t *testing.T) {
	arena := structure.NewArena[Order]()
	bids := newBidBook(arena)

	enqueueTestOrder(bids, 1, 100.0, 10)
	enqueueTestOrder(bids, 2, 101.0, 20)
	enqueueTestOrder(bids, 3, 100.0, 30)
	enqueueTestOrder(bids, 4, 101.0, 40)

	snap := bids.toSnapshot()
	require.Len(t, snap, 4)

	// Best level first, FIFO within each level.
	assert.Equal(t, uint64(2), snap[0].ID)
	assert.Equal(t, uint64(4), snap[1].ID)
	assert.Equal(t, uint64(1), snap[2].ID)
	assert.Equal(t, uint64(3), snap[3].ID)
}

package match

import (
	"fmt"

	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"

	"github.com/harsh-kumar-patwa/Scaler-HFT-2027/structure"
)

// priceLevel is the FIFO queue of resting orders sharing one price, plus
// the aggregate remaining quantity at that price. The queue is a doubly
// linked list threaded through the order arena by handle. A level never
// exists with an empty queue.
type priceLevel struct {
	price         decimal.Decimal
	totalQuantity uint64
	head          structure.Handle
	tail          structure.Handle
	count         int64
}

// sideBook holds one side of the order book: an ordered mapping from price
// to priceLevel. Bids iterate highest price first, asks lowest price first,
// so the best price is always the front element.
type sideBook struct {
	side        Side
	arena       *structure.Arena[Order]
	depthList   *skiplist.SkipList
	totalOrders int64
}

// newBidBook creates the buy side, sorted by price descending.
func newBidBook(arena *structure.Arena[Order]) *sideBook {
	return &sideBook{
		side:  Buy,
		arena: arena,
		depthList: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.LessThan(d2) {
				return 1
			} else if d1.GreaterThan(d2) {
				return -1
			}

			return 0
		})),
	}
}

// newAskBook creates the sell side, sorted by price ascending.
func newAskBook(arena *structure.Arena[Order]) *sideBook {
	return &sideBook{
		side:  Sell,
		arena: arena,
		depthList: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.GreaterThan(d2) {
				return 1
			} else if d1.LessThan(d2) {
				return -1
			}

			return 0
		})),
	}
}

// level returns the price level at the given price, or nil.
func (b *sideBook) level(price decimal.Decimal) *priceLevel {
	el := b.depthList.Get(price)
	if el == nil {
		return nil
	}
	lvl, _ := el.Value.(*priceLevel)
	return lvl
}

// enqueueOrder appends the order at h to the tail of its price level,
// creating the level in sort position if absent.
func (b *sideBook) enqueueOrder(h structure.Handle, ord *Order) {
	lvl := b.level(ord.Price)
	if lvl == nil {
		lvl = &priceLevel{price: ord.Price}
		b.depthList.Set(ord.Price, lvl)
	}

	ord.prev = lvl.tail
	ord.next = structure.Handle{}
	if lvl.tail.Valid() {
		tailOrd, ok := b.arena.Get(lvl.tail)
		if !ok {
			panic(fmt.Sprintf("match: %s level %s tail handle is stale", b.side, lvl.price))
		}
		tailOrd.next = h
	} else {
		lvl.head = h
	}
	lvl.tail = h

	lvl.totalQuantity += ord.Quantity
	lvl.count++
	b.totalOrders++
}

// removeOrder unlinks the order at h from its price level, deducting its
// remaining quantity from the aggregate, and drops the level the moment its
// queue empties.
func (b *sideBook) removeOrder(h structure.Handle, ord *Order) {
	el := b.depthList.Get(ord.Price)
	if el == nil {
		panic(fmt.Sprintf("match: order %d references missing %s level %s", ord.ID, b.side, ord.Price))
	}
	lvl, _ := el.Value.(*priceLevel)

	if ord.prev.Valid() {
		prevOrd, ok := b.arena.Get(ord.prev)
		if !ok {
			panic(fmt.Sprintf("match: order %d prev handle is stale", ord.ID))
		}
		prevOrd.next = ord.next
	} else {
		lvl.head = ord.next
	}

	if ord.next.Valid() {
		nextOrd, ok := b.arena.Get(ord.next)
		if !ok {
			panic(fmt.Sprintf("match: order %d next handle is stale", ord.ID))
		}
		nextOrd.prev = ord.prev
	} else {
		lvl.tail = ord.prev
	}

	ord.next = structure.Handle{}
	ord.prev = structure.Handle{}

	if lvl.totalQuantity < ord.Quantity {
		panic(fmt.Sprintf("match: %s level %s aggregate would go negative", b.side, lvl.price))
	}
	lvl.totalQuantity -= ord.Quantity
	lvl.count--
	b.totalOrders--

	if lvl.count == 0 {
		b.depthList.RemoveElement(el)
	}
}

// bestLevel returns the level at the best price, or nil if the side is empty.
func (b *sideBook) bestLevel() *priceLevel {
	el := b.depthList.Front()
	if el == nil {
		return nil
	}
	lvl, _ := el.Value.(*priceLevel)
	return lvl
}

// best returns the best price and its aggregate quantity.
func (b *sideBook) best() (decimal.Decimal, uint64, bool) {
	lvl := b.bestLevel()
	if lvl == nil {
		return decimal.Zero, 0, false
	}
	return lvl.price, lvl.totalQuantity, true
}

// frontOrder resolves the order at the head of the given level's queue.
func (b *sideBook) frontOrder(lvl *priceLevel) (structure.Handle, *Order) {
	ord, ok := b.arena.Get(lvl.head)
	if !ok {
		panic(fmt.Sprintf("match: %s level %s head handle is stale", b.side, lvl.price))
	}
	return lvl.head, ord
}

// orderCount returns the total number of orders on this side.
func (b *sideBook) orderCount() int64 {
	return b.totalOrders
}

// depthCount returns the number of price levels on this side.
func (b *sideBook) depthCount() int64 {
	return int64(b.depthList.Len())
}

// depth returns up to limit aggregated levels in priority order.
func (b *sideBook) depth(limit uint32) []*DepthItem {
	result := make([]*DepthItem, 0, limit)

	el := b.depthList.Front()

	var i uint32 = 0
	for i < limit && el != nil {
		lvl, _ := el.Value.(*priceLevel)
		result = append(result, &DepthItem{
			Price:    lvl.price,
			Quantity: lvl.totalQuantity,
		})

		el = el.Next()
		i++
	}

	return result
}

// toSnapshot serializes this side into a slice of orders walking the price
// levels in priority order and each FIFO queue front to back, so replaying
// the slice in order reproduces both price and time priority.
func (b *sideBook) toSnapshot() []Order {
	snapshots := make([]Order, 0, b.totalOrders)

	el := b.depthList.Front()
	for el != nil {
		lvl, _ := el.Value.(*priceLevel)

		h := lvl.head
		for h.Valid() {
			ord, ok := b.arena.Get(h)
			if !ok {
				panic(fmt.Sprintf("match: %s level %s queue handle is stale", b.side, lvl.price))
			}
			snapshots = append(snapshots, Order{
				ID:          ord.ID,
				Side:        ord.Side,
				Price:       ord.Price,
				Quantity:    ord.Quantity,
				ArrivalTime: ord.ArrivalTime,
			})
			h = ord.next
		}

		el = el.Next()
	}

	return snapshots
}

package match

import (
	"time"

	"github.com/rs/xid"
)

// BookSnapshot contains the full state of one OrderBook: every resting
// order per side in priority order (best level first, FIFO within a level),
// plus the sequence counters needed to resume event consumption downstream.
type BookSnapshot struct {
	SnapshotID      string  `json:"snapshot_id"`
	SeqID           uint64  `json:"seq_id"`
	TradeID         uint64  `json:"trade_id"`
	OrdersAdded     uint64  `json:"orders_added"`
	OrdersCancelled uint64  `json:"orders_cancelled"`
	OrdersMatched   uint64  `json:"orders_matched"`
	CreatedAt       int64   `json:"created_at"`
	Bids            []Order `json:"bids"`
	Asks            []Order `json:"asks"`
}

// Snapshot captures the current state of the order book. The book is
// single-threaded; call it from the same stream of operations that mutates
// the book (or through a Processor).
func (book *OrderBook) Snapshot() *BookSnapshot {
	return &BookSnapshot{
		SnapshotID:      xid.New().String(),
		SeqID:           book.seqID,
		TradeID:         book.tradeID,
		OrdersAdded:     book.ordersAdded,
		OrdersCancelled: book.ordersCancelled,
		OrdersMatched:   book.ordersMatched,
		CreatedAt:       time.Now().UnixNano(),
		Bids:            book.bids.toSnapshot(),
		Asks:            book.asks.toSnapshot(),
	}
}

// Restore resets the book and rebuilds it from a snapshot, bypassing the
// crossing loop. Orders are re-enqueued in slice order, which reproduces
// price and time priority for snapshots taken by Snapshot.
func (book *OrderBook) Restore(snap *BookSnapshot) {
	book.Clear()

	book.seqID = snap.SeqID
	book.tradeID = snap.TradeID
	book.ordersAdded = snap.OrdersAdded
	book.ordersCancelled = snap.OrdersCancelled
	book.ordersMatched = snap.OrdersMatched

	restore := func(orders []Order, side *sideBook) {
		for i := range orders {
			h, slot := book.arena.Alloc()
			slot.ID = orders[i].ID
			slot.Side = orders[i].Side
			slot.Price = orders[i].Price
			slot.Quantity = orders[i].Quantity
			slot.ArrivalTime = orders[i].ArrivalTime
			side.enqueueOrder(h, slot)
			book.orders[slot.ID] = h
		}
	}

	restore(snap.Bids, book.bids)
	restore(snap.Asks, book.asks)
}

package match

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harsh-kumar-patwa/Scaler-HFT-2027/structure"
)

// OrderBook maintains the resting buy and sell interest for a single
// instrument and matches crossing interest under strict price-then-time
// priority.
//
// The book is designed for a single logical stream of operations: no
// internal locking, no goroutines, every call runs to completion
// synchronously. Multi-producer deployments must serialize access in front
// of the book (see Processor). Sinks are invoked synchronously from within
// the mutating call and must not call back into the book.
//
// There is no self-trade prevention: two crossing orders always trade,
// whoever submitted them.
type OrderBook struct {
	arena  *structure.Arena[Order]
	bids   *sideBook
	asks   *sideBook
	orders map[uint64]structure.Handle

	seqID   uint64
	tradeID uint64

	ordersAdded     uint64
	ordersCancelled uint64
	ordersMatched   uint64

	trades TradeSink
	events EventSink
}

// NewOrderBook creates an empty order book. Nil sinks are replaced with
// discarding ones.
func NewOrderBook(trades TradeSink, events EventSink) *OrderBook {
	if trades == nil {
		trades = NewDiscardTradeSink()
	}
	if events == nil {
		events = NewDiscardEventSink()
	}

	arena := structure.NewArena[Order]()
	arena.SetOnGrow(func(oldCap, newCap int) {
		logger.Debug("order arena grew", "old_cap", oldCap, "new_cap", newCap)
	})

	return &OrderBook{
		arena:  arena,
		bids:   newBidBook(arena),
		asks:   newAskBook(arena),
		orders: make(map[uint64]structure.Handle),
		trades: trades,
		events: events,
	}
}

// sideOf returns the side book holding orders of the given side.
func (book *OrderBook) sideOf(side Side) *sideBook {
	if side == Buy {
		return book.bids
	}
	return book.asks
}

// AddOrder validates the order, rests it at the tail of its price level,
// and runs the crossing loop. Validation happens before any mutation; a
// rejected order leaves the book untouched.
//
// Time priority is defined by submission order within a price. The
// caller-supplied ArrivalTime is carried along but never used to re-sort.
func (book *OrderBook) AddOrder(order *Order) error {
	if order == nil {
		return ErrInvalidParam
	}
	if order.Quantity == 0 {
		return ErrInvalidQuantity
	}
	if order.Price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	if order.Side != Buy && order.Side != Sell {
		return ErrInvalidParam
	}
	if _, ok := book.orders[order.ID]; ok {
		return ErrDuplicateOrderID
	}

	h, slot := book.arena.Alloc()
	slot.ID = order.ID
	slot.Side = order.Side
	slot.Price = order.Price
	slot.Quantity = order.Quantity
	slot.ArrivalTime = order.ArrivalTime

	book.sideOf(slot.Side).enqueueOrder(h, slot)
	book.orders[slot.ID] = h
	book.ordersAdded++

	ev := acquireBookEvent()
	ev.SequenceID = book.nextSeqID()
	ev.Type = EventTypeOpen
	ev.Side = slot.Side
	ev.Price = slot.Price
	ev.Quantity = slot.Quantity
	ev.OrderID = slot.ID
	ev.Timestamp = time.Now().UnixNano()
	book.events.Publish(ev)
	releaseBookEvent(ev)

	book.matchOrders()

	return nil
}

// CancelOrder removes a resting order. It returns false when the id is not
// resting, which is not an error: cancels racing a fill are expected.
func (book *OrderBook) CancelOrder(orderID uint64) bool {
	h, ok := book.orders[orderID]
	if !ok {
		return false
	}

	ord, ok := book.arena.Get(h)
	if !ok {
		panic(fmt.Sprintf("match: order %d index entry is stale", orderID))
	}

	side := ord.Side
	price := ord.Price
	quantity := ord.Quantity

	book.sideOf(side).removeOrder(h, ord)
	delete(book.orders, orderID)
	book.arena.Free(h)
	book.ordersCancelled++

	ev := acquireBookEvent()
	ev.SequenceID = book.nextSeqID()
	ev.Type = EventTypeCancel
	ev.Side = side
	ev.Price = price
	ev.Quantity = quantity
	ev.OrderID = orderID
	ev.Timestamp = time.Now().UnixNano()
	book.events.Publish(ev)
	releaseBookEvent(ev)

	return true
}

// AmendOrder modifies a resting order. A price change re-queues the order
// at the tail of the new level, losing time priority. A quantity-only
// change updates the order in place and keeps its queue position, for
// decreases and increases alike. Either way the crossing loop re-runs.
//
// Returns false when the id is not resting. A zero new quantity is
// rejected; cancel instead.
func (book *OrderBook) AmendOrder(orderID uint64, newPrice decimal.Decimal, newQuantity uint64) (bool, error) {
	if newQuantity == 0 {
		return false, ErrInvalidQuantity
	}
	if newPrice.LessThanOrEqual(decimal.Zero) {
		return false, ErrInvalidPrice
	}

	h, ok := book.orders[orderID]
	if !ok {
		return false, nil
	}

	ord, ok := book.arena.Get(h)
	if !ok {
		panic(fmt.Sprintf("match: order %d index entry is stale", orderID))
	}

	oldPrice := ord.Price
	oldQuantity := ord.Quantity

	if !oldPrice.Equal(newPrice) {
		// Price change: move to the tail of the new level's queue. The
		// arrival time is kept; only queue position is forfeited.
		side := book.sideOf(ord.Side)
		side.removeOrder(h, ord)
		ord.Price = newPrice
		ord.Quantity = newQuantity
		side.enqueueOrder(h, ord)
	} else if newQuantity != oldQuantity {
		lvl := book.sideOf(ord.Side).level(oldPrice)
		if lvl == nil {
			panic(fmt.Sprintf("match: order %d references missing %s level %s", orderID, ord.Side, oldPrice))
		}
		lvl.totalQuantity -= oldQuantity
		lvl.totalQuantity += newQuantity
		ord.Quantity = newQuantity
	} else {
		// No change requested.
		return true, nil
	}

	ev := acquireBookEvent()
	ev.SequenceID = book.nextSeqID()
	ev.Type = EventTypeAmend
	ev.Side = ord.Side
	ev.Price = newPrice
	ev.Quantity = newQuantity
	ev.OldPrice = oldPrice
	ev.OldQuantity = oldQuantity
	ev.OrderID = orderID
	ev.Timestamp = time.Now().UnixNano()
	book.events.Publish(ev)
	releaseBookEvent(ev)

	book.matchOrders()

	return true, nil
}

// matchOrders is the crossing loop. While the best bid price is at or above
// the best ask price, the two oldest orders at those levels trade the
// overlapping quantity at the resting ask's price. Fully filled orders are
// dequeued, de-indexed, and their slots returned to the arena; levels are
// dropped the instant they empty. One mutating call may execute any number
// of trades, bounded only by resting quantity.
func (book *OrderBook) matchOrders() {
	for {
		bidLvl := book.bids.bestLevel()
		askLvl := book.asks.bestLevel()
		if bidLvl == nil || askLvl == nil {
			return
		}

		if bidLvl.price.LessThan(askLvl.price) {
			return
		}

		buyH, buy := book.bids.frontOrder(bidLvl)
		sellH, sell := book.asks.frontOrder(askLvl)

		tradeQty := min(buy.Quantity, sell.Quantity)
		tradePrice := askLvl.price
		now := time.Now().UnixNano()

		book.ordersMatched++
		trade := &Trade{
			TradeID:     book.nextTradeID(),
			BuyOrderID:  buy.ID,
			SellOrderID: sell.ID,
			Price:       tradePrice,
			Quantity:    tradeQty,
			Timestamp:   now,
		}
		book.trades.PublishTrades(trade)

		ev := acquireBookEvent()
		ev.SequenceID = book.nextSeqID()
		ev.TradeID = trade.TradeID
		ev.Type = EventTypeMatch
		ev.Side = Sell // price maker; the trade executes at the resting ask
		ev.Price = tradePrice
		ev.Quantity = tradeQty
		ev.OrderID = buy.ID
		ev.MakerOrderID = sell.ID
		ev.BidPrice = bidLvl.price
		ev.AskPrice = askLvl.price
		ev.Timestamp = now
		book.events.Publish(ev)
		releaseBookEvent(ev)

		if bidLvl.totalQuantity < tradeQty || askLvl.totalQuantity < tradeQty {
			panic("match: level aggregate would go negative during match")
		}

		buy.Quantity -= tradeQty
		sell.Quantity -= tradeQty
		bidLvl.totalQuantity -= tradeQty
		askLvl.totalQuantity -= tradeQty

		if buy.Quantity == 0 {
			delete(book.orders, buy.ID)
			book.bids.removeOrder(buyH, buy)
			book.arena.Free(buyH)
		}

		if sell.Quantity == 0 {
			delete(book.orders, sell.ID)
			book.asks.removeOrder(sellH, sell)
			book.arena.Free(sellH)
		}
	}
}

// BestBid returns the highest bid price and its aggregate quantity.
func (book *OrderBook) BestBid() (decimal.Decimal, uint64, bool) {
	return book.bids.best()
}

// BestAsk returns the lowest ask price and its aggregate quantity.
func (book *OrderBook) BestAsk() (decimal.Decimal, uint64, bool) {
	return book.asks.best()
}

// Depth returns up to limit aggregated levels per side in priority order.
// It is read-only; individual resting orders are not revealed.
func (book *OrderBook) Depth(limit uint32) *Depth {
	return &Depth{
		UpdateID: book.seqID,
		Bids:     book.bids.depth(limit),
		Asks:     book.asks.depth(limit),
	}
}

// Stats returns the book's counters and sizing statistics.
func (book *OrderBook) Stats() *BookStats {
	return &BookStats{
		OrdersAdded:     book.ordersAdded,
		OrdersCancelled: book.ordersCancelled,
		OrdersMatched:   book.ordersMatched,
		BidLevelCount:   book.bids.depthCount(),
		BidOrderCount:   book.bids.orderCount(),
		AskLevelCount:   book.asks.depthCount(),
		AskOrderCount:   book.asks.orderCount(),
	}
}

// Clear releases all resting orders and resets every counter. Arena blocks
// are retained for reuse; outstanding handles are invalidated.
func (book *OrderBook) Clear() {
	book.arena.Reset()
	book.bids = newBidBook(book.arena)
	book.asks = newAskBook(book.arena)
	book.orders = make(map[uint64]structure.Handle)
	book.seqID = 0
	book.tradeID = 0
	book.ordersAdded = 0
	book.ordersCancelled = 0
	book.ordersMatched = 0
}

func (book *OrderBook) nextSeqID() uint64 {
	book.seqID++
	return book.seqID
}

func (book *OrderBook) nextTradeID() uint64 {
	book.tradeID++
	return book.tradeID
}

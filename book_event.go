package match

import (
	"sync"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventTypeOpen   EventType = "open"
	EventTypeMatch  EventType = "match"
	EventTypeCancel EventType = "cancel"
	EventTypeAmend  EventType = "amend"
)

// BookEvent records one state change of the order book. SequenceID is a
// per-book increasing ID for every event, used for ordering, deduplication,
// and rebuild synchronization in downstream consumers.
//
// For match events the event describes both sides of the fill: OrderID is
// the buy order, MakerOrderID the sell order, Side the maker's side, Price
// the execution price, and BidPrice/AskPrice the level prices liquidity was
// consumed from.
type BookEvent struct {
	SequenceID   uint64          `json:"seq_id"`
	TradeID      uint64          `json:"trade_id,omitempty"`
	Type         EventType       `json:"type"`
	Side         Side            `json:"side"`
	Price        decimal.Decimal `json:"price"`
	Quantity     uint64          `json:"quantity"`
	OldPrice     decimal.Decimal `json:"old_price,omitempty"`
	OldQuantity  uint64          `json:"old_quantity,omitempty"`
	OrderID      uint64          `json:"order_id"`
	MakerOrderID uint64          `json:"maker_order_id,omitempty"`
	BidPrice     decimal.Decimal `json:"bid_price,omitempty"`
	AskPrice     decimal.Decimal `json:"ask_price,omitempty"`
	Timestamp    int64           `json:"timestamp"`
}

var bookEventPool = sync.Pool{
	New: func() interface{} {
		return new(BookEvent)
	},
}

func acquireBookEvent() *BookEvent {
	return bookEventPool.Get().(*BookEvent)
}

func releaseBookEvent(ev *BookEvent) {
	// Reset to zero values. For decimal.Decimal the zero value represents 0,
	// which is valid.
	*ev = BookEvent{}
	bookEventPool.Put(ev)
}

package match

import (
	"github.com/shopspring/decimal"

	"github.com/harsh-kumar-patwa/Scaler-HFT-2027/structure"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Order is the resting state of a limit order. Quantity is the remaining
// size and is mutated in place as the order trades down; an order never
// rests with zero quantity.
//
// ArrivalTime is caller-supplied and informational only. Time priority is
// defined by submission order, not by this field.
type Order struct {
	ID          uint64          `json:"id"`
	Side        Side            `json:"side"`
	Price       decimal.Decimal `json:"price"`
	Quantity    uint64          `json:"quantity"`
	ArrivalTime uint64          `json:"arrival_time"`

	// Intrusive FIFO links, addressed by arena handle rather than pointer
	// so queue positions survive arena growth (ignored by JSON).
	next structure.Handle
	prev structure.Handle
}

// DepthItem is one aggregated price level of a depth view.
type DepthItem struct {
	Price    decimal.Decimal `json:"price"`
	Quantity uint64          `json:"quantity"`
}

// Depth is an aggregated view of both sides of the book, best price first.
type Depth struct {
	UpdateID uint64       `json:"update_id"`
	Bids     []*DepthItem `json:"bids"`
	Asks     []*DepthItem `json:"asks"`
}

// BookStats contains counters and sizing statistics for one order book.
// The Orders* counters are monotonically non-decreasing until Clear.
type BookStats struct {
	OrdersAdded     uint64
	OrdersCancelled uint64
	OrdersMatched   uint64
	BidLevelCount   int64
	BidOrderCount   int64
	AskLevelCount   int64
	AskOrderCount   int64
}

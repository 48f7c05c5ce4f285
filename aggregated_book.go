package match

import (
	"github.com/igrmk/treemap/v2"
	"github.com/shopspring/decimal"
)

// AggregatedBook maintains a simplified view of the order book, tracking
// only price levels and their aggregated sizes. It is designed for
// downstream consumers that rebuild book state from BookEvents received
// out of process: seed it with Rebuild from a snapshot, then Apply events
// in sequence order.
//
// It is single-consumer, like the event stream that feeds it.
type AggregatedBook struct {
	seqID uint64
	bid   *treemap.TreeMap[decimal.Decimal, uint64]
	ask   *treemap.TreeMap[decimal.Decimal, uint64]
}

// NewAggregatedBook creates a new AggregatedBook with empty sides.
func NewAggregatedBook() *AggregatedBook {
	less := func(a, b decimal.Decimal) bool {
		return a.LessThan(b)
	}
	return &AggregatedBook{
		bid: treemap.NewWithKeyCompare[decimal.Decimal, uint64](less),
		ask: treemap.NewWithKeyCompare[decimal.Decimal, uint64](less),
	}
}

// SequenceID returns the last applied event sequence ID, used for gap
// detection and for knowing where to resume after Rebuild.
func (ab *AggregatedBook) SequenceID() uint64 {
	return ab.seqID
}

func (ab *AggregatedBook) sideOf(side Side) *treemap.TreeMap[decimal.Decimal, uint64] {
	if side == Buy {
		return ab.bid
	}
	return ab.ask
}

// Apply updates the aggregated state from one book event. Events at or
// below the current sequence ID are ignored as duplicates; a jump past
// seqID+1 returns ErrSequenceGap. Gap and underflow errors alike leave the
// state untouched.
func (ab *AggregatedBook) Apply(ev *BookEvent) error {
	if ev.SequenceID <= ab.seqID {
		return nil
	}
	if ev.SequenceID != ab.seqID+1 {
		return ErrSequenceGap
	}

	// One event's changes touch distinct levels, so each validates against
	// the current state. No writes happen until all changes pass.
	changes := CalculateDepthChanges(ev)
	next := make([]int64, len(changes))
	for i, change := range changes {
		cur, _ := ab.sideOf(change.Side).Get(change.Price)
		next[i] = int64(cur) + change.SizeDiff
		if next[i] < 0 {
			return ErrDepthUnderflow
		}
	}

	for i, change := range changes {
		m := ab.sideOf(change.Side)
		if next[i] == 0 {
			m.Del(change.Price)
		} else {
			m.Set(change.Price, uint64(next[i]))
		}
	}

	ab.seqID = ev.SequenceID
	return nil
}

// Rebuild resets the aggregated book from a snapshot. Apply events with
// SequenceID greater than the snapshot's SeqID afterwards.
func (ab *AggregatedBook) Rebuild(snap *BookSnapshot) {
	less := func(a, b decimal.Decimal) bool {
		return a.LessThan(b)
	}
	ab.bid = treemap.NewWithKeyCompare[decimal.Decimal, uint64](less)
	ab.ask = treemap.NewWithKeyCompare[decimal.Decimal, uint64](less)

	for i := range snap.Bids {
		cur, _ := ab.bid.Get(snap.Bids[i].Price)
		ab.bid.Set(snap.Bids[i].Price, cur+snap.Bids[i].Quantity)
	}
	for i := range snap.Asks {
		cur, _ := ab.ask.Get(snap.Asks[i].Price)
		ab.ask.Set(snap.Asks[i].Price, cur+snap.Asks[i].Quantity)
	}

	ab.seqID = snap.SeqID
}

// Depth returns the aggregated size at a specific price level for the
// given side. Returns zero if the price level does not exist.
func (ab *AggregatedBook) Depth(side Side, price decimal.Decimal) uint64 {
	size, _ := ab.sideOf(side).Get(price)
	return size
}

// Top returns up to n levels for the given side in priority order:
// highest price first for bids, lowest first for asks.
func (ab *AggregatedBook) Top(side Side, n int) []*DepthItem {
	result := make([]*DepthItem, 0, n)

	if side == Buy {
		for it := ab.bid.Reverse(); it.Valid() && len(result) < n; it.Next() {
			result = append(result, &DepthItem{Price: it.Key(), Quantity: it.Value()})
		}
		return result
	}

	for it := ab.ask.Iterator(); it.Valid() && len(result) < n; it.Next() {
		result = append(result, &DepthItem{Price: it.Key(), Quantity: it.Value()})
	}
	return result
}

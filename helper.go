package match

import "github.com/shopspring/decimal"

// DepthChange represents a change in the order book depth.
type DepthChange struct {
	Side     Side
	Price    decimal.Decimal
	SizeDiff int64
}

// CalculateDepthChanges derives the depth updates implied by a book event.
// It returns zero, one, or two changes:
//   - Open adds the order's quantity on its side.
//   - Cancel removes the order's remaining quantity.
//   - Match removes the trade quantity from both resting levels; both orders
//     are in the book when the crossing loop runs, so the bid level and the
//     ask level each lose liquidity.
//   - Amend with a price change moves the full size from the old level to
//     the new one; a quantity-only amend applies the difference in place.
func CalculateDepthChanges(ev *BookEvent) []DepthChange {
	switch ev.Type {
	case EventTypeOpen:
		return []DepthChange{{
			Side:     ev.Side,
			Price:    ev.Price,
			SizeDiff: int64(ev.Quantity),
		}}
	case EventTypeCancel:
		return []DepthChange{{
			Side:     ev.Side,
			Price:    ev.Price,
			SizeDiff: -int64(ev.Quantity),
		}}
	case EventTypeMatch:
		// Side is the maker's side; the taker rested on the opposite one.
		makerPrice, takerPrice := ev.AskPrice, ev.BidPrice
		if ev.Side == Buy {
			makerPrice, takerPrice = ev.BidPrice, ev.AskPrice
		}
		return []DepthChange{
			{
				Side:     ev.Side,
				Price:    makerPrice,
				SizeDiff: -int64(ev.Quantity),
			},
			{
				Side:     ev.Side.Opposite(),
				Price:    takerPrice,
				SizeDiff: -int64(ev.Quantity),
			},
		}
	case EventTypeAmend:
		if !ev.OldPrice.Equal(ev.Price) {
			return []DepthChange{
				{
					Side:     ev.Side,
					Price:    ev.OldPrice,
					SizeDiff: -int64(ev.OldQuantity),
				},
				{
					Side:     ev.Side,
					Price:    ev.Price,
					SizeDiff: int64(ev.Quantity),
				},
			}
		}

		return []DepthChange{{
			Side:     ev.Side,
			Price:    ev.Price,
			SizeDiff: int64(ev.Quantity) - int64(ev.OldQuantity),
		}}
	}

	return nil
}

package match

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Trade is one fill produced by the crossing loop. TradeID is sequential
// per book. Trades are delivered to the TradeSink synchronously, in
// execution order, from within the mutating call that produced them.
type Trade struct {
	TradeID     uint64          `json:"trade_id"`
	BuyOrderID  uint64          `json:"buy_order_id"`
	SellOrderID uint64          `json:"sell_order_id"`
	Price       decimal.Decimal `json:"price"`
	Quantity    uint64          `json:"quantity"`
	Timestamp   int64           `json:"timestamp"`
}

// TradeSink receives executed trades. Implementations must not call back
// into the book that produced the trade; the book is not reentrant.
type TradeSink interface {
	PublishTrades(...*Trade)
}

// MemoryTradeSink stores trades in memory, useful for testing.
type MemoryTradeSink struct {
	mu     sync.RWMutex
	trades []*Trade
}

// NewMemoryTradeSink creates a new MemoryTradeSink.
func NewMemoryTradeSink() *MemoryTradeSink {
	return &MemoryTradeSink{
		trades: make([]*Trade, 0),
	}
}

// PublishTrades appends trades to the in-memory slice.
func (m *MemoryTradeSink) PublishTrades(trades ...*Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, trades...)
}

// Count returns the number of trades stored.
func (m *MemoryTradeSink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trades)
}

// Get returns the trade at the specified index.
func (m *MemoryTradeSink) Get(index int) *Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.trades[index]
}

// Trades returns a copy of all trades stored.
func (m *MemoryTradeSink) Trades() []*Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trades := make([]*Trade, len(m.trades))
	copy(trades, m.trades)
	return trades
}

// DiscardTradeSink drops all trades, useful for benchmarking.
type DiscardTradeSink struct {
}

// NewDiscardTradeSink creates a new DiscardTradeSink.
func NewDiscardTradeSink() *DiscardTradeSink {
	return &DiscardTradeSink{}
}

// PublishTrades does nothing.
func (s *DiscardTradeSink) PublishTrades(trades ...*Trade) {
}

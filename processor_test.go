package match

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T) (*Processor, *MemoryTradeSink) {
	t.Helper()
	trades := NewMemoryTradeSink()
	book := NewOrderBook(trades, nil)
	p := NewProcessor(book, 4096)
	p.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.Shutdown(ctx)
	})
	return p, trades
}

func TestProcessorPlaceAndQuery(t *testing.T) {
	p, trades := newTestProcessor(t)

	p.PlaceOrder(&Order{ID: 1, Side: Buy, Price: decimal.NewFromFloat(100.0), Quantity: 50})
	p.PlaceOrder(&Order{ID: 2, Side: Sell, Price: decimal.NewFromFloat(101.0), Quantity: 60})

	depth, err := p.Depth(10)
	require.NoError(t, err)
	require.Len(t, depth.Bids, 1)
	require.Len(t, depth.Asks, 1)
	assert.True(t, depth.Bids[0].Price.Equal(decimal.NewFromFloat(100.0)))
	assert.Equal(t, 0, trades.Count())
}

func TestProcessorCrossExecutes(t *testing.T) {
	p, trades := newTestProcessor(t)

	p.PlaceOrder(&Order{ID: 1, Side: Sell, Price: decimal.NewFromFloat(101.0), Quantity: 60})
	p.PlaceOrder(&Order{ID: 2, Side: Buy, Price: decimal.NewFromFloat(102.0), Quantity: 200})

	stats, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.OrdersAdded)
	assert.Equal(t, uint64(1), stats.OrdersMatched)
	require.Equal(t, 1, trades.Count())
	assert.Equal(t, uint64(60), trades.Get(0).Quantity)
}

func TestProcessorSynchronousRejection(t *testing.T) {
	p, _ := newTestProcessor(t)

	resp := make(chan any, 1)
	p.Submit(Command{
		Type:  CmdPlaceOrder,
		Order: &Order{ID: 1, Side: Buy, Price: decimal.NewFromFloat(100.0)},
		Resp:  resp,
	})

	select {
	case res := <-resp:
		assert.ErrorIs(t, res.(error), ErrInvalidQuantity)
	case <-time.After(time.Second):
		t.Fatal("no response from processor")
	}
}

func TestProcessorCancelAndAmend(t *testing.T) {
	p, _ := newTestProcessor(t)

	p.PlaceOrder(&Order{ID: 1, Side: Buy, Price: decimal.NewFromFloat(100.0), Quantity: 50})
	p.AmendOrder(1, decimal.NewFromFloat(100.0), 80)
	p.CancelOrder(1)

	stats, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.OrdersCancelled)
	assert.Equal(t, int64(0), stats.BidOrderCount)
}

func TestProcessorShutdownRejectsCommands(t *testing.T) {
	book := NewOrderBook(nil, nil)
	p := NewProcessor(book, 16)
	p.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))

	err := p.PlaceOrder(&Order{ID: 1, Side: Buy, Price: decimal.NewFromFloat(100.0), Quantity: 10})
	assert.ErrorIs(t, err, ErrShutdown)
	assert.ErrorIs(t, p.CancelOrder(1), ErrShutdown)

	_, err = p.Depth(10)
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestProcessorSerializesConcurrentProducers(t *testing.T) {
	p, _ := newTestProcessor(t)

	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	for w := 0; w < producers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			base := uint64(w*perProducer + 1)
			for i := uint64(0); i < perProducer; i++ {
				p.PlaceOrder(&Order{
					ID:       base + i,
					Side:     Buy,
					Price:    decimal.NewFromFloat(90.0 + float64(i%50)),
					Quantity: 10,
				})
			}
		}(w)
	}
	wg.Wait()

	snap, err := p.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Bids, producers*perProducer)
	assert.Equal(t, uint64(producers*perProducer), snap.OrdersAdded)
}

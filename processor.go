package match

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CommandType represents the type of command sent to a Processor.
type CommandType int

const (
	CmdPlaceOrder CommandType = iota
	CmdCancelOrder
	CmdAmendOrder
	CmdDepth
	CmdStats
	CmdSnapshot
)

// Command is the unified envelope consumed by a Processor. Only the fields
// relevant to the command type are set. Resp, when non-nil, receives the
// result of read commands (and rejection errors for writes).
type Command struct {
	Type        CommandType
	Order       *Order
	OrderID     uint64
	NewPrice    decimal.Decimal
	NewQuantity uint64
	Depth       uint32
	Resp        chan any
}

// Processor is the single-writer funnel in front of one OrderBook. The book
// itself performs no locking; the processor serializes any number of
// producer goroutines onto the book's one logical stream of operations by
// pushing commands through an MPSC ring buffer consumed by a single
// goroutine.
type Processor struct {
	book *OrderBook
	ring *RingBuffer[Command]
}

// NewProcessor wraps a book with a command funnel. Capacity must be a power
// of two.
func NewProcessor(book *OrderBook, capacity int64) *Processor {
	p := &Processor{book: book}
	p.ring = NewRingBuffer[Command](capacity, p)
	return p
}

// Start launches the consumer loop. The book must not be mutated directly
// once the processor is running.
func (p *Processor) Start() {
	p.ring.Start()
}

// Shutdown stops accepting commands and waits for the ring to drain.
func (p *Processor) Shutdown(ctx context.Context) error {
	return p.ring.Shutdown(ctx)
}

// OnEvent applies one command to the book. It runs on the single consumer
// goroutine; responses are sent without blocking so a slow reader drops its
// reply rather than stalling the book.
func (p *Processor) OnEvent(cmd Command) {
	switch cmd.Type {
	case CmdPlaceOrder:
		if cmd.Order == nil {
			return
		}
		err := p.book.AddOrder(cmd.Order)
		if err != nil {
			logger.Warn("order rejected",
				"order_id", cmd.Order.ID,
				"side", cmd.Order.Side.String(),
				"err", err)
		}
		p.respond(cmd, err)
	case CmdCancelOrder:
		found := p.book.CancelOrder(cmd.OrderID)
		p.respond(cmd, found)
	case CmdAmendOrder:
		found, err := p.book.AmendOrder(cmd.OrderID, cmd.NewPrice, cmd.NewQuantity)
		if err != nil {
			p.respond(cmd, err)
			return
		}
		p.respond(cmd, found)
	case CmdDepth:
		p.respond(cmd, p.book.Depth(cmd.Depth))
	case CmdStats:
		p.respond(cmd, p.book.Stats())
	case CmdSnapshot:
		p.respond(cmd, p.book.Snapshot())
	}
}

func (p *Processor) respond(cmd Command, result any) {
	if cmd.Resp == nil {
		return
	}
	select {
	case cmd.Resp <- result:
	default:
	}
}

// PlaceOrder submits an order asynchronously. Rejections are logged by the
// consumer; callers that need the rejection reason should use a Resp
// channel via Submit. Returns ErrShutdown once the processor is stopped.
func (p *Processor) PlaceOrder(order *Order) error {
	return p.publish(Command{Type: CmdPlaceOrder, Order: order})
}

// CancelOrder submits a cancellation asynchronously.
func (p *Processor) CancelOrder(orderID uint64) error {
	return p.publish(Command{Type: CmdCancelOrder, OrderID: orderID})
}

// AmendOrder submits an amendment asynchronously.
func (p *Processor) AmendOrder(orderID uint64, newPrice decimal.Decimal, newQuantity uint64) error {
	return p.publish(Command{Type: CmdAmendOrder, OrderID: orderID, NewPrice: newPrice, NewQuantity: newQuantity})
}

// Submit publishes a raw command, letting the caller attach a response
// channel to any command type.
func (p *Processor) Submit(cmd Command) error {
	return p.publish(cmd)
}

func (p *Processor) publish(cmd Command) error {
	if !p.ring.Publish(cmd) {
		return ErrShutdown
	}
	return nil
}

// Depth requests an aggregated depth view and waits for the reply.
func (p *Processor) Depth(limit uint32) (*Depth, error) {
	res, err := p.request(Command{Type: CmdDepth, Depth: limit})
	if err != nil {
		return nil, err
	}
	depth, ok := res.(*Depth)
	if !ok {
		return nil, errors.New("unexpected response type for depth")
	}
	return depth, nil
}

// Stats requests the book's statistics and waits for the reply.
func (p *Processor) Stats() (*BookStats, error) {
	res, err := p.request(Command{Type: CmdStats})
	if err != nil {
		return nil, err
	}
	stats, ok := res.(*BookStats)
	if !ok {
		return nil, errors.New("unexpected response type for stats")
	}
	return stats, nil
}

// Snapshot requests a full book snapshot and waits for the reply.
func (p *Processor) Snapshot() (*BookSnapshot, error) {
	res, err := p.request(Command{Type: CmdSnapshot})
	if err != nil {
		return nil, err
	}
	snap, ok := res.(*BookSnapshot)
	if !ok {
		return nil, errors.New("unexpected response type for snapshot")
	}
	return snap, nil
}

func (p *Processor) request(cmd Command) (any, error) {
	respChan := make(chan any, 1)
	cmd.Resp = respChan
	if err := p.publish(cmd); err != nil {
		return nil, err
	}

	select {
	case res := <-respChan:
		if err, ok := res.(error); ok {
			return nil, err
		}
		return res, nil
	case <-time.After(time.Second):
		return nil, ErrTimeout
	}
}

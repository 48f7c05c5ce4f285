package match

import "sync"

// EventSink receives order book events (opens, matches, cancels, amends).
//
// IMPORTANT: Implementations must either:
//  1. Process events synchronously before returning, OR
//  2. Clone the BookEvent data before returning
//
// The book recycles BookEvent objects to a sync.Pool after Publish returns,
// so any asynchronous processing must work with cloned data.
type EventSink interface {
	Publish(...*BookEvent)
}

// MemoryEventSink stores events in memory, useful for testing and for
// feeding an AggregatedBook rebuild.
type MemoryEventSink struct {
	mu     sync.RWMutex
	events []*BookEvent
}

// NewMemoryEventSink creates a new MemoryEventSink.
func NewMemoryEventSink() *MemoryEventSink {
	return &MemoryEventSink{
		events: make([]*BookEvent, 0),
	}
}

// Publish appends clones of the events to the in-memory slice.
func (m *MemoryEventSink) Publish(events ...*BookEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range events {
		cpy := new(BookEvent)
		*cpy = *ev
		m.events = append(m.events, cpy)
	}
}

// Count returns the number of events stored.
func (m *MemoryEventSink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// Get returns the event at the specified index.
func (m *MemoryEventSink) Get(index int) *BookEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.events[index]
}

// Events returns a copy of all events stored.
func (m *MemoryEventSink) Events() []*BookEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]*BookEvent, len(m.events))
	copy(events, m.events)
	return events
}

// DiscardEventSink drops all events, useful for benchmarking.
type DiscardEventSink struct {
}

// NewDiscardEventSink creates a new DiscardEventSink.
func NewDiscardEventSink() *DiscardEventSink {
	return &DiscardEventSink{}
}

// Publish does nothing.
func (s *DiscardEventSink) Publish(events ...*BookEvent) {
}

// Package notify is the change notification bus. Components publish that a
// category of data changed; listeners re-query whatever they display.
package notify

import (
	"log/slog"
	"sync"
)

// Listener is called when its category changes. It receives no payload.
type Listener func(Category)

// Bus maps categories to ordered listener lists. A Bus is safe for
// concurrent use; create one at process start and inject it.
type Bus struct {
	mu        sync.RWMutex
	executor  Executor
	nextID    uint64
	listeners map[Category][]entry
}

type entry struct {
	id uint64
	fn Listener
}

// NewBus creates a bus that delivers through executor. A nil executor means Inline.
func NewBus(executor Executor) *Bus {
	if executor == nil {
		executor = Inline
	}
	return &Bus{
		executor:  executor,
		listeners: make(map[Category][]entry),
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus      *Bus
	category Category
	id       uint64
	once     sync.Once
}

// Category returns the category the subscription listens to.
func (s *Subscription) Category() Category {
	return s.category
}

// Unsubscribe removes the listener. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s.category, s.id)
	})
}

// Subscribe registers fn for category. Listeners run in registration order.
func (b *Bus) Subscribe(category Category, fn Listener) (*Subscription, error) {
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners[category] = append(b.listeners[category], entry{id: id, fn: fn})

	return &Subscription{bus: b, category: category, id: id}, nil
}

func (b *Bus) remove(category Category, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.listeners[category]
	kept := make([]entry, 0, len(current))
	for _, e := range current {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(b.listeners, category)
		return
	}
	b.listeners[category] = kept
}

// Notify tells every listener of category that something changed.
// Listeners are snapshotted first, so one may unsubscribe while being called.
func (b *Bus) Notify(category Category) {
	if !category.IsValid() {
		slog.Warn("notify called with unknown category", "category", category)
		return
	}

	b.mu.RLock()
	snapshot := make([]entry, len(b.listeners[category]))
	copy(snapshot, b.listeners[category])
	b.mu.RUnlock()

	for _, e := range snapshot {
		fn := e.fn
		b.executor.Execute(func() { run(func() { fn(category) }) })
	}
}

// NotifyAll notifies each category in order.
func (b *Bus) NotifyAll(categories ...Category) {
	for _, c := range categories {
		b.Notify(c)
	}
}

// ListenerCount returns how many listeners category has.
func (b *Bus) ListenerCount(category Category) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[category])
}

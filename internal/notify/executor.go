package notify

import (
	"log/slog"
	"sync"
)

// Executor runs listener callbacks on some execution context.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// Inline runs callbacks synchronously on the notifying goroutine.
var Inline Executor = ExecutorFunc(func(fn func()) { fn() })

// DefaultQueueSize is the initial dispatcher queue capacity used when none is given.
const DefaultQueueSize = 256

// Dispatcher is a single goroutine that runs every callback handed to it,
// one at a time and in submission order. It is the foreground context:
// anything that touches shared view state is funneled through it.
//
// The queue is unbounded, so a callback may notify again from inside the
// dispatcher without waiting on itself.
type Dispatcher struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	signal chan struct{} // buffered, size 1
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher starts a dispatcher whose queue starts with the given capacity.
func NewDispatcher(size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	d := &Dispatcher{
		queue:  make([]func(), 0, size),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	d.wg.Add(1)
	go d.loop()
	return d
}

// Execute queues fn without blocking. It drops fn once the dispatcher is closed.
func (d *Dispatcher) Execute(fn func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		slog.Warn("dispatcher closed, dropping callback")
		return
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.signal <- struct{}{}:
	default:
	}
}

// Close stops accepting work, runs what is already queued and waits for the loop to exit.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.done)
	})
	d.wg.Wait()
}

// next pops the oldest queued callback.
func (d *Dispatcher) next() (func(), bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return nil, false
	}
	fn := d.queue[0]
	d.queue[0] = nil
	if len(d.queue) == 1 {
		d.queue = d.queue[:0]
	} else {
		d.queue = d.queue[1:]
	}
	return fn, true
}

// drain runs queued callbacks until the queue is empty.
func (d *Dispatcher) drain() {
	for {
		fn, ok := d.next()
		if !ok {
			return
		}
		run(fn)
	}
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for {
		d.drain()
		select {
		case <-d.signal:
		case <-d.done:
			d.drain()
			return
		}
	}
}

// run invokes fn and keeps a panicking listener from taking the loop down.
func run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("notification listener panicked", "panic", r)
		}
	}()
	fn()
}

package async

import (
	"sync"
	"time"

	"github.com/delaneyj/gravity/graph"
)

// Debouncer coalesces bursts of writes: only the most recent value reaches
// the sink, one quiet period after the last write. The sink runs through the
// Deliver hook (inline by default).
type Debouncer[T any] struct {
	delay   time.Duration
	sink    func(T)
	deliver func(fn func())

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	has     bool
	closed  bool
}

type DebounceOption[T any] func(*Debouncer[T])

func DebounceDeliver[T any](deliver func(fn func())) DebounceOption[T] {
	return func(d *Debouncer[T]) { d.deliver = deliver }
}

func NewDebouncer[T any](delay time.Duration, sink func(T), opts ...DebounceOption[T]) *Debouncer[T] {
	d := &Debouncer[T]{
		delay:   delay,
		sink:    sink,
		deliver: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Write replaces any pending value and restarts the quiet-period timer.
func (d *Debouncer[T]) Write(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = v
	d.has = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	if d.closed || !d.has {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.has = false
	d.timer = nil
	d.mu.Unlock()
	d.deliver(func() { d.sink(v) })
}

// Flush delivers any pending value immediately.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fire()
}

// Cancel drops any pending value and stops the timer. Safe at any point,
// including after Close; a cancelled delivery never fires.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Close cancels and rejects all further writes. Idempotent.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// DebounceWrites subscribes to a signal and debounces persistence of its
// values: a new change cancels the pending persist and reschedules it with
// the newer value. The returned func tears both halves down.
func DebounceWrites[T any](sig graph.Readable[T], delay time.Duration, persist func(T), opts ...DebounceOption[T]) func() {
	d := NewDebouncer(delay, persist, opts...)
	unsubscribe := sig.Subscribe(func(newValue, _ T) error {
		d.Write(newValue)
		return nil
	})
	return func() {
		unsubscribe()
		d.Close()
	}
}

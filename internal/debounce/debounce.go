// Package debounce delays propagation of a rapidly changing value until it
// has been stable for a fixed window.
//
// A Debouncer emits only the latest pushed value; intermediate values are
// dropped, never queued. Stop releases the pending timer and waits for any
// callback already running, so nothing is emitted once the consumer is gone.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet window used when a non-positive delay is given.
const DefaultDelay = time.Second

// Debouncer calls fn with the most recent value passed to Push once no
// further Push has happened for the configured delay.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	latest  T
	stopped bool
	running sync.WaitGroup
}

// New returns a Debouncer that calls fn on its own goroutine. fn must not
// call Stop on the same Debouncer.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Push records v as the latest value and restarts the quiet window.
// It is a no-op after Stop.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.latest = v
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a value is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && d.timer != nil
}

// Stop cancels the pending timer and blocks until an in-flight callback
// returns. Safe to call more than once.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		if d.timer != nil {
			d.timer.Stop()
			d.timer = nil
		}
	}
	d.mu.Unlock()

	d.running.Wait()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost the race against a newer Push or Stop must not emit.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.latest
	d.timer = nil
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(v)
}

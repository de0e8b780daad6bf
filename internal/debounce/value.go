package debounce

import (
	"sync"
	"time"
)

// Value pairs a raw value, updated synchronously on every Set, with a
// debounced value that follows it once the raw value has been stable for
// the delay. onSettle runs only when the debounced value actually changes,
// or after Unsettle.
type Value[T comparable] struct {
	mu        sync.RWMutex
	raw       T
	debounced T
	unsettled bool

	onSettle func(T)
	deb      *Debouncer[T]
}

// NewValue returns a Value whose raw and debounced values both start at
// initial. onSettle may be nil.
func NewValue[T comparable](initial T, delay time.Duration, onSettle func(T)) *Value[T] {
	v := &Value[T]{raw: initial, debounced: initial, onSettle: onSettle}
	v.deb = New(delay, v.settle)
	return v
}

// Set updates the raw value immediately and restarts the quiet window.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.raw = x
	v.mu.Unlock()

	v.deb.Push(x)
}

// Raw returns the latest value passed to Set.
func (v *Value[T]) Raw() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.raw
}

// Debounced returns the value as of the last settled window.
func (v *Value[T]) Debounced() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.debounced
}

// Pending reports whether a Set is still waiting for its quiet window.
func (v *Value[T]) Pending() bool {
	return v.deb.Pending()
}

// Unsettle makes the next settle run onSettle even if the value is unchanged.
// A consumer whose onSettle failed calls it so a repeated value is retried.
func (v *Value[T]) Unsettle() {
	v.mu.Lock()
	v.unsettled = true
	v.mu.Unlock()
}

// Close stops the underlying timer. No onSettle call starts after Close
// returns.
func (v *Value[T]) Close() {
	v.deb.Stop()
}

func (v *Value[T]) settle(x T) {
	v.mu.Lock()
	changed := v.unsettled || v.debounced != x
	v.debounced = x
	v.unsettled = false
	v.mu.Unlock()

	if changed && v.onSettle != nil {
		v.onSettle(x)
	}
}

// Package debounce delays delivery of a rapidly changing value until it has
// been stable for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers only the most recent value passed to Trigger, once no
// newer value has arrived for the configured delay. Intermediate values are
// dropped, never queued.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(T)
	timer   *time.Timer
	seq     uint64
	value   T
	pending bool
	stopped bool
}

// New returns a Debouncer that calls fn with the settled value. A delay of
// zero or less makes Trigger call fn synchronously.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Delay reports the configured settle interval.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Trigger records v as the latest value and restarts the settle timer,
// cancelling whatever the previous call scheduled.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fn(v)
		return
	}

	d.seq++
	seq := d.seq
	d.value = v
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
	d.mu.Unlock()
}

// fire delivers the pending value unless a newer Trigger, Flush or Stop
// superseded the timer that scheduled it.
func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.mu.Unlock()
	d.fn(v)
}

// Flush delivers the pending value immediately. It reports whether there was
// anything to deliver.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.take()
	d.mu.Unlock()
	d.fn(v)
	return true
}

// Pending reports whether a value is waiting to settle.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop drops any pending value. Later Triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	var zero T
	d.value = zero
}

// take must be called with mu held.
func (d *Debouncer[T]) take() T {
	v := d.value
	var zero T
	d.value = zero
	d.pending = false
	return v
}

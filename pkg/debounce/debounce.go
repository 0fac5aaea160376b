// Package debounce collapses bursts of calls into a single invocation that
// fires once the caller has been quiet for a fixed period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer owns a single pending timer. Every Debounce call replaces the
// pending function, so only the most recent one runs.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	wait    time.Duration
}

// New creates a debouncer that waits for wait of silence before firing.
func New(wait time.Duration) *Debouncer {
	if wait < 0 {
		wait = 0
	}
	return &Debouncer{wait: wait}
}

// Wait reports the quiet period.
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Debounce schedules fn to run after the quiet period, cancelling any call
// scheduled earlier.
func (d *Debouncer) Debounce(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn

	var timer *time.Timer
	timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A newer call replaced this timer after it had already fired.
		if d.timer != timer {
			d.mu.Unlock()
			return
		}
		run := d.pending
		d.timer = nil
		d.pending = nil
		d.mu.Unlock()

		if run != nil {
			run()
		}
	})
	d.timer = timer
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

// Flush runs the pending call immediately and reports whether one existed.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	run := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()

	if run == nil {
		return false
	}
	run()
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Func wraps fn so that only the latest argument within any wait window is
// delivered. The returned cancel function drops a pending delivery.
func Func[T any](fn func(T), wait time.Duration) (call func(T), cancel func()) {
	d := New(wait)
	call = func(arg T) {
		d.Debounce(func() {
			fn(arg)
		})
	}
	return call, d.Cancel
}

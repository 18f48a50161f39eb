package lspserver

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of change events into a single analysis
// run per document. Scheduling a URI that already has a pending timer
// replaces the timer, so only the newest request fires. Timers for
// different URIs are independent.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

// NewDebouncer creates a debouncer with the given delay. A zero or
// negative delay fires callbacks immediately (still asynchronously).
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: map[string]*time.Timer{},
	}
}

// Schedule arranges for fn to run after the delay, superseding any
// pending callback for the same key. fn runs on its own goroutine.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}

	delay := d.delay
	if delay < 0 {
		delay = 0
	}
	d.timers[key] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel stops any pending callback for the key. A callback that has
// already started is not interrupted.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// SetDelay changes the delay for subsequently scheduled callbacks.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Stop cancels all pending callbacks.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

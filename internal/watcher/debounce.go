package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of events per path. The callback runs once,
// delay after the last event for that path.
type Debouncer struct {
	delay    time.Duration
	callback func(path string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewDebouncer creates a Debouncer. The callback runs on a timer goroutine.
func NewDebouncer(delay time.Duration, callback func(path string)) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
		pending:  make(map[string]*time.Timer),
	}
}

// Add schedules path, restarting its timer if it is already pending.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.pending[path]; ok {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A newer Add may have replaced this timer after it fired.
		if d.pending[path] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.pending, path)
		d.mu.Unlock()

		if d.callback != nil {
			d.callback(path)
		}
	})
	d.pending[path] = timer
}

// CancelAll drops every pending path and returns how many were dropped.
func (d *Debouncer) CancelAll() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := len(d.pending)
	for path, timer := range d.pending {
		timer.Stop()
		delete(d.pending, path)
	}
	return n
}

// PendingCount returns the number of paths waiting for their timer.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

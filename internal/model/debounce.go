package model

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single call of fn, fired
// once no trigger arrived for the configured delay.
type Debouncer struct {
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
	mx      sync.Mutex
}

// NewDebouncer returns a new debouncer.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)arms the timer.
func (d *Debouncer) Trigger() {
	d.mx.Lock()
	defer d.mx.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop disarms the timer. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mx.Lock()
	defer d.mx.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

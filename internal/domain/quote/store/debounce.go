package store

import (
	"context"
	"sync"
	"time"
)

// debouncer runs fn once, delay after the last Trigger. Each Trigger
// restarts the window; a timer that fires after being superseded is
// ignored via the generation counter.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(context.Context)
	timer *time.Timer
	gen   uint64
}

func newDebouncer(delay time.Duration, fn func(context.Context)) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn(context.Background())
	})
}

// Flush runs a pending call immediately. It reports whether one was pending.
func (d *debouncer) Flush(ctx context.Context) bool {
	if !d.stop() {
		return false
	}
	d.fn(ctx)
	return true
}

func (d *debouncer) Cancel() { d.stop() }

func (d *debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *debouncer) stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

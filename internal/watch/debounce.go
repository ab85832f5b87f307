// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// debouncer collects paths and hands them to fn once no new path has
// arrived for the delay. fn never runs concurrently with itself; a batch
// that becomes due while fn is busy is retried after another delay.
type debouncer struct {
	delay   time.Duration
	fn      func([]string)
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	running atomic.Bool
	stopped bool
}

func newDebouncer(delay time.Duration, fn func([]string)) *debouncer {
	return &debouncer{delay: delay, fn: fn, pending: make(map[string]struct{})}
}

func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	d.schedule()
}

// schedule (re)arms the timer. d.mu must be held.
func (d *debouncer) schedule() {
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flush)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *debouncer) flush() {
	if !d.running.CompareAndSwap(false, true) {
		d.mu.Lock()
		if !d.stopped {
			d.schedule()
		}
		d.mu.Unlock()
		return
	}
	defer d.running.Store(false)

	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	batch := slices.Sorted(maps.Keys(d.pending))
	clear(d.pending)
	d.mu.Unlock()

	d.fn(batch)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

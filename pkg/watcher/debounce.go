package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces rapid triggers into a single callback after a quiet
// period. Editors and exporters often write a file several times in quick
// succession; without debouncing every write would force a graph reload.
type debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

func newDebouncer(d time.Duration) *debouncer {
	return &debouncer{duration: d}
}

// trigger schedules fn after the quiet period, resetting any pending timer.
func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.duration <= 0 {
		go fn()
		return
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// cancel drops any pending trigger.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

package widget

import (
	"sync"
	"time"
)

// debouncer runs only the most recently scheduled func once input has been
// quiet for delay. Scheduling or cancelling invalidates anything pending,
// including a timer that already fired but has not yet run its func.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

func (d *debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	mine := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := mine == d.seq
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

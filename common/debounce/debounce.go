package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid calls into a single trailing invocation.
// Each Schedule resets the one pending timer; only the last function
// scheduled within the window runs. Safe for concurrent use.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Schedule arranges for fn to run after the debounce window, cancelling
// any previously pending function. It returns a token identifying this
// scheduling; a later Schedule call supersedes it.
func (d *Debouncer) Schedule(fn func()) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	token := d.seq

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		superseded := token != d.seq
		d.mu.Unlock()
		if superseded {
			return
		}
		fn()
	})
	return token
}

// Superseded reports whether a newer call has been scheduled since the
// given token was issued.
func (d *Debouncer) Superseded(token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return token != d.seq
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

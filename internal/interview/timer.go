package interview

import (
	"sync"
	"time"
)

// DefaultMaxDuration bounds a session regardless of dialogue progress.
const DefaultMaxDuration = 10 * time.Minute

// SessionTimer force-finalizes a session after a fixed wall-clock duration.
// Stop is idempotent and safe to call after the timer has fired; the callback
// itself must be guarded by the caller's finalize-once section, so a fire/stop
// race can never produce a second finalization.
type SessionTimer struct {
	timer *time.Timer

	mu      sync.Mutex
	stopped bool
	fired   bool
}

func StartSessionTimer(d time.Duration, fn func()) *SessionTimer {
	t := &SessionTimer{}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.stopped {
			t.mu.Unlock()
			return
		}
		t.fired = true
		t.mu.Unlock()
		fn()
	})
	return t
}

// Stop cancels the deadline. Returns true when the timer was prevented from
// firing, false when it already fired or was already stopped.
func (t *SessionTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return t.timer.Stop()
}

// Fired reports whether the deadline callback ran.
func (t *SessionTimer) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

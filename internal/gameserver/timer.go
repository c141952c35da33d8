package gameserver

import (
	"sync"
	"time"
)

// ChoiceTimer fires a callback after a configurable duration unless stopped.
// It backs the auto-resolve deadline for stop selections and task dialogs.
// It is safe for concurrent use.
type ChoiceTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewChoiceTimer creates and starts a timer that calls onFire after duration.
// onFire is called in a separate goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: Returns a running ChoiceTimer; onFire will be called unless Stop is called first.
func NewChoiceTimer(duration time.Duration, onFire func()) *ChoiceTimer {
	ct := &ChoiceTimer{}
	ct.timer = time.AfterFunc(duration, func() {
		ct.mu.Lock()
		stopped := ct.stopped
		ct.mu.Unlock()
		if !stopped {
			onFire()
		}
	})
	return ct
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns.
func (ct *ChoiceTimer) Stop() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.stopped = true
	ct.timer.Stop()
}

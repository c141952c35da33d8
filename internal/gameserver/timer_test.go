package gameserver

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChoiceTimerFires(t *testing.T) {
	var fired atomic.Bool
	done := make(chan struct{})
	NewChoiceTimer(10*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
	assert.True(t, fired.Load())
}

func TestChoiceTimerStopPreventsFire(t *testing.T) {
	var fired atomic.Bool
	ct := NewChoiceTimer(30*time.Millisecond, func() {
		fired.Store(true)
	})
	ct.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestChoiceTimerStopIsIdempotent(t *testing.T) {
	ct := NewChoiceTimer(time.Hour, func() {})
	ct.Stop()
	ct.Stop()
}

package interview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionTimer_StopPreventsFiring(t *testing.T) {
	fired := make(chan struct{})
	tm := StartSessionTimer(20*time.Millisecond, func() { close(fired) })

	assert.True(t, tm.Stop())

	select {
	case <-fired:
		t.Fatal("callback ran after Stop")
	case <-time.After(60 * time.Millisecond):
	}
	assert.False(t, tm.Fired())
}

func TestSessionTimer_FiresOnce(t *testing.T) {
	fired := make(chan struct{})
	tm := StartSessionTimer(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("deadline never fired")
	}

	assert.True(t, tm.Fired())
	assert.False(t, tm.Stop(), "stopping after the fire reports false")
}

func TestSessionTimer_StopIsIdempotent(t *testing.T) {
	tm := StartSessionTimer(time.Hour, func() { t.Error("should not fire") })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())
	assert.False(t, tm.Stop())
}

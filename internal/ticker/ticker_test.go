package ticker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_Ticks(t *testing.T) {
	var calls atomic.Int32
	h := Start(5*time.Millisecond, func(time.Time) { calls.Add(1) })
	defer h.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestStop_NoCallsAfterReturn(t *testing.T) {
	var calls atomic.Int32
	h := Start(time.Millisecond, func(time.Time) { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	h.Stop()
	<-h.Done()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestStop_Idempotent(t *testing.T) {
	h := Start(time.Hour, func(time.Time) {})

	assert.NotPanics(t, func() {
		h.Stop()
		h.Stop()
		h.Stop()
	})

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit")
	}
}

func TestStop_FromInsideCallback(t *testing.T) {
	var calls atomic.Int32
	var h *Handle
	ready := make(chan struct{})
	h = Start(time.Millisecond, func(time.Time) {
		<-ready
		calls.Add(1)
		h.Stop()
	})
	close(ready)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after Stop from callback")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestStart_DefaultInterval(t *testing.T) {
	h := Start(0, func(time.Time) {})
	h.Stop()
	<-h.Done()
}

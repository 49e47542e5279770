// Package ticker runs a function on a fixed interval until stopped.
package ticker

import (
	"sync"
	"time"
)

// Handle controls a running ticker.
type Handle struct {
	mu      sync.Mutex
	stopped bool
	once    sync.Once
	stopCh  chan struct{}
	done    chan struct{}
}

// Start calls fn every interval on its own goroutine until the returned
// Handle is stopped.
func Start(interval time.Duration, fn func(time.Time)) *Handle {
	if interval <= 0 {
		interval = time.Second
	}
	h := &Handle{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.run(interval, fn)
	return h
}

func (h *Handle) run(interval time.Duration, fn func(time.Time)) {
	defer close(h.done)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case now := <-t.C:
			if !h.active() {
				return
			}
			fn(now)
		}
	}
}

func (h *Handle) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stopped
}

// Stop ends the loop. Once it returns no new call to fn begins. It is safe
// to call more than once and from inside fn.
func (h *Handle) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	h.once.Do(func() { close(h.stopCh) })
}

// Done is closed once the loop goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

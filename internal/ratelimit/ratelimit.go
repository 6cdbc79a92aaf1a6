// Package ratelimit throttles repeated requests per client address. It
// fronts the credential endpoints, where unthrottled retries would allow
// password guessing.
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter counts requests per client address over a fixed one-minute
// window. Stale entries are swept in the background until Stop is called.
type Limiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	stopSweep chan struct{}
	stopOnce  sync.Once

	perMinute int
}

// NewLimiter starts a limiter allowing perMinute requests per address.
func NewLimiter(perMinute int) *Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	l := &Limiter{
		windows:   make(map[string]*window),
		stopSweep: make(chan struct{}),
		perMinute: perMinute,
	}
	go l.sweep()
	return l
}

// Allow reports whether a request from addr fits in the current window.
func (l *Limiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[addr]
	if !ok || now.Sub(w.start) > time.Minute {
		l.windows[addr] = &window{start: now, count: 1}
		return true
	}

	w.count++
	return w.count <= l.perMinute
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.dropStale()
		case <-l.stopSweep:
			return
		}
	}
}

func (l *Limiter) dropStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for addr, w := range l.windows {
		if w.start.Before(cutoff) {
			delete(l.windows, addr)
		}
	}
}

// Tracked returns the number of addresses currently counted.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Stop ends the background sweeper.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopSweep) })
}

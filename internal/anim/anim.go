// Package anim drives timed transitions from a ticker when no UI toolkit
// animation loop is available.
package anim

import (
	"context"
	"sync"
	"time"

	"batterytext/internal/indicator"
)

// DefaultFrameInterval is roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Ticker creates animations whose ticks run on a goroutine and are handed
// to Dispatch, which must serialise them onto the caller's event context.
type Ticker struct {
	Interval time.Duration
	Dispatch func(func())
}

// NewTicker returns a scheduler delivering frames through dispatch.
func NewTicker(dispatch func(func())) *Ticker {
	return &Ticker{Interval: DefaultFrameInterval, Dispatch: dispatch}
}

func (t *Ticker) NewAnimation(d time.Duration, tick func(float32), done func()) indicator.Animation {
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	dispatch := t.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &animation{
		duration: d,
		interval: interval,
		dispatch: dispatch,
		tick:     tick,
		done:     done,
	}
}

type animation struct {
	duration time.Duration
	interval time.Duration
	dispatch func(func())
	tick     func(float32)
	done     func()

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Start cancels a running transition and begins a new one from fraction 0.
func (a *animation) Start() {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.gen++
	gen := a.gen
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.mu.Unlock()

	go a.run(ctx, gen)
}

// Stop cancels a running transition without calling done.
func (a *animation) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.gen++
}

// current reports whether gen is still the live run. Frames already queued
// on the dispatcher by a cancelled run are dropped through this check.
func (a *animation) current(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen == gen
}

func (a *animation) run(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fraction := float32(1)
			if a.duration > 0 {
				fraction = float32(now.Sub(start)) / float32(a.duration)
			}
			if fraction >= 1 {
				a.dispatch(func() {
					if !a.current(gen) {
						return
					}
					a.tick(1)
					a.done()
				})
				return
			}
			a.dispatch(func() {
				if a.current(gen) {
					a.tick(fraction)
				}
			})
		}
	}
}

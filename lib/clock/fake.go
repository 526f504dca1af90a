// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock whose current time is start.
func Fake(start time.Time) *FakeClock {
	c := &FakeClock{now: start}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// FakeClock is a Clock for tests. Time stands still until Advance.
// It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*pendingFire
	changed *sync.Cond
}

type pendingFire struct {
	at    time.Time
	ch    chan time.Time
	every time.Duration // zero for timers
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) NewTimer(d time.Duration) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return &Timer{C: ch, stop: func() bool { return false }}
	}
	p := c.addLocked(d, 0, ch)
	return &Timer{C: ch, stop: func() bool { return c.cancel(p) }}
}

func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	p := c.addLocked(d, d, ch)
	return &Ticker{C: ch, stop: func() { c.cancel(p) }}
}

func (c *FakeClock) addLocked(d, every time.Duration, ch chan time.Time) *pendingFire {
	p := &pendingFire{at: c.now.Add(d), ch: ch, every: every}
	c.pending = append(c.pending, p)
	c.changed.Broadcast()
	return p
}

// cancel removes p and reports whether it was still pending.
func (c *FakeClock) cancel(p *pendingFire) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, q := range c.pending {
		if q == p {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves time forward by d and delivers every timer and ticker
// deadline that falls inside the step, earliest first. A ticker
// spanning several intervals fires once per interval; ticks that find
// the channel full are dropped.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for {
		due := c.dueLocked()
		if due == nil {
			return
		}
		select {
		case due.ch <- c.now:
		default:
		}
		if due.every > 0 {
			due.at = due.at.Add(due.every)
			continue
		}
		for i, q := range c.pending {
			if q == due {
				c.pending = append(c.pending[:i], c.pending[i+1:]...)
				break
			}
		}
	}
}

// dueLocked returns the earliest pending entry whose deadline is not
// after now, or nil.
func (c *FakeClock) dueLocked() *pendingFire {
	sort.SliceStable(c.pending, func(i, j int) bool {
		return c.pending[i].at.Before(c.pending[j].at)
	})
	if len(c.pending) == 0 || c.pending[0].at.After(c.now) {
		return nil
	}
	return c.pending[0]
}

// WaitForTimers blocks until at least n timers or tickers are pending.
// Call it before Advance when the goroutine under test registers its
// timers asynchronously.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of timers and tickers not yet fired
// or stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

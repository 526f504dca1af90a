// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the time source used by every loop that waits on the
// backend: the startup poll, the shutdown wait, and region polling.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTimer returns a Timer that fires once after d. A non-positive
	// d yields a timer that has already fired.
	NewTimer(d time.Duration) *Timer

	// NewTicker returns a Ticker firing every d. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Since returns the time elapsed on c since t.
func Since(c Clock, t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Timer is a one-shot deadline. C has capacity 1.
type Timer struct {
	C <-chan time.Time

	stop func() bool
}

// Stop cancels the timer. It reports whether the timer was still
// pending. C is never closed.
func (t *Timer) Stop() bool { return t.stop() }

// Ticker delivers periodic ticks on C. Slow readers lose ticks rather
// than queueing them.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop ends the tick stream.
func (t *Ticker) Stop() { t.stop() }

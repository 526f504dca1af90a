// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the injectable time source for the gateway manager
// and the automation wrappers.
//
// Production code holds a Clock and uses Real(). Tests use Fake(),
// whose time moves only when Advance is called. A test that drives a
// goroutine blocked on a timer first calls WaitForTimers so the timer
// is registered before time moves:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go manager.Start(ctx)
//	c.WaitForTimers(2)           // startup deadline and poll ticker
//	c.Advance(30 * time.Second)  // expire the deadline
package clock

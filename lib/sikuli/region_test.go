// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sikuli-go/sikuli/lib/testutil"
)

func TestFindReturnsMatch(t *testing.T) {
	f := newFixture(t)
	f.transport.returns("find", ObjectRef("m1"))

	match, err := f.region().Find(context.Background(), "button.png")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if match == nil || match.RemoteRef() != "m1" {
		t.Fatalf("match = %v, want m1", match)
	}
	got := f.transport.last(t, "find")
	if got.target != "region" || got.args[0] != "button.png" {
		t.Errorf("find call = %v", got)
	}
}

func TestFindNotFoundIsNil(t *testing.T) {
	f := newFixture(t)
	f.transport.handle("find", func(call) (any, error) { return nil, findFailed() })

	match, err := f.region().Find(context.Background(), "button.png")
	if err != nil || match != nil {
		t.Fatalf("Find = %v, %v; want nil, nil", match, err)
	}
}

func TestFindTransportErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.transport.handle("find", func(call) (any, error) { return nil, errConnection })

	_, err := f.region().Find(context.Background(), "button.png")
	if !errors.Is(err, errConnection) {
		t.Fatalf("error = %v, want transport error", err)
	}
}

func TestFindRejectsBadTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, target := range []any{nil, 42, &Pattern{}} {
		if _, err := f.region().Find(ctx, target); !errors.Is(err, ErrBadTarget) {
			t.Errorf("Find(%#v) error = %v, want ErrBadTarget", target, err)
		}
	}
}

func TestFindAll(t *testing.T) {
	f := newFixture(t)
	f.transport.returns("findAll", []any{ObjectRef("a"), nil, ObjectRef("b")})

	matches, err := f.region().FindAll(context.Background(), "icon.png")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(matches) != 2 || matches[0].RemoteRef() != "a" || matches[1].RemoteRef() != "b" {
		t.Errorf("matches = %v", matches)
	}

	f.transport.handle("findAll", func(call) (any, error) { return nil, findFailed() })
	matches, err = f.region().FindAll(context.Background(), "icon.png")
	if err != nil || len(matches) != 0 {
		t.Errorf("FindAll not found = %v, %v; want empty", matches, err)
	}
}

func TestWaitPollsUntilFound(t *testing.T) {
	f := newFixture(t)
	f.transport.notify = make(chan call, 64)
	var attempts atomic.Int32
	f.transport.handle("find", func(call) (any, error) {
		if attempts.Add(1) < 3 {
			return nil, findFailed()
		}
		return ObjectRef("m"), nil
	})

	type result struct {
		match *Match
		err   error
	}
	done := make(chan result, 1)
	go func() {
		match, err := f.region().Wait(context.Background(), "dialog.png", 0)
		done <- result{match, err}
	}()

	// Connection setup makes no notifying calls; every notification is
	// a find.
	for range 2 {
		testutil.RequireReceive(t, f.transport.notify, 5*time.Second, "find attempt")
		f.clock.Advance(200 * time.Millisecond)
	}
	got := testutil.RequireReceive(t, done, 5*time.Second, "Wait result")
	if got.err != nil || got.match == nil || got.match.RemoteRef() != "m" {
		t.Fatalf("Wait = %v, %v; want match m", got.match, got.err)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("attempts = %d, want 3", n)
	}
}

func TestWaitTimesOutWithoutError(t *testing.T) {
	f := newFixture(t)
	f.transport.notify = make(chan call, 64)
	f.transport.handle("find", func(call) (any, error) { return nil, findFailed() })

	done := make(chan *Match, 1)
	errs := make(chan error, 1)
	go func() {
		match, err := f.region().Wait(context.Background(), "dialog.png", time.Second)
		done <- match
		errs <- err
	}()

	testutil.RequireReceive(t, f.transport.notify, 5*time.Second, "first find")
	f.clock.WaitForTimers(2)
	f.clock.Advance(time.Second)

	if match := testutil.RequireReceive(t, done, 5*time.Second, "Wait result"); match != nil {
		t.Errorf("match = %v, want nil", match)
	}
	if err := <-errs; err != nil {
		t.Errorf("error = %v, want nil on timeout", err)
	}
	if n := f.clock.PendingCount(); n != 0 {
		t.Errorf("pending timers after Wait = %d", n)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	f := newFixture(t)
	f.transport.notify = make(chan call, 64)
	f.transport.handle("find", func(call) (any, error) { return nil, findFailed() })

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := f.region().Wait(ctx, "dialog.png", time.Minute)
		errs <- err
	}()
	testutil.RequireReceive(t, f.transport.notify, 5*time.Second, "first find")
	cancel()

	if err := testutil.RequireReceive(t, errs, 5*time.Second, "Wait result"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWaitStopsOnTransportError(t *testing.T) {
	f := newFixture(t)
	f.transport.handle("find", func(call) (any, error) { return nil, errConnection })

	_, err := f.region().Wait(context.Background(), "dialog.png", time.Minute)
	if !errors.Is(err, errConnection) {
		t.Fatalf("error = %v, want transport error", err)
	}
}

func TestWaitVanish(t *testing.T) {
	f := newFixture(t)
	f.transport.notify = make(chan call, 64)
	var present atomic.Bool
	present.Store(true)
	f.transport.handle("find", func(call) (any, error) {
		if present.Load() {
			return ObjectRef("m"), nil
		}
		return nil, findFailed()
	})

	done := make(chan bool, 1)
	go func() {
		vanished, err := f.region().WaitVanish(context.Background(), "spinner.png", 0)
		if err != nil {
			t.Errorf("WaitVanish: %v", err)
		}
		done <- vanished
	}()

	testutil.RequireReceive(t, f.transport.notify, 5*time.Second, "first find")
	present.Store(false)
	f.clock.Advance(200 * time.Millisecond)

	if !testutil.RequireReceive(t, done, 5*time.Second, "WaitVanish result") {
		t.Error("WaitVanish = false, want true")
	}
}

func TestExistsPassesTimeoutInSeconds(t *testing.T) {
	f := newFixture(t)
	f.transport.handle("exists", func(call) (any, error) { return nil, nil })

	match, err := f.region().Exists(context.Background(), "icon.png", 1500*time.Millisecond)
	if err != nil || match != nil {
		t.Fatalf("Exists = %v, %v; want nil, nil", match, err)
	}
	got := f.transport.last(t, "exists")
	if got.args[1] != 1.5 {
		t.Errorf("exists timeout arg = %v, want 1.5", got.args[1])
	}
}

func TestDerivedRegions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.transport.returns("nearby", ObjectRef("bigger"))

	nearby, err := f.region().Nearby(ctx, 10)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if nearby.RemoteRef() != "bigger" {
		t.Errorf("Nearby ref = %s", nearby.RemoteRef())
	}
	if err := f.region().SetROI(ctx, Rect{X: 1, Y: 2, W: 3, H: 4}); err != nil {
		t.Fatalf("SetROI: %v", err)
	}
	if got := f.transport.last(t, "setROI"); len(got.args) != 4 || got.args[3] != 4 {
		t.Errorf("setROI args = %v", got.args)
	}
}

func TestSortByScore(t *testing.T) {
	f := newFixture(t)
	scores := map[string]float64{"low": 0.71, "high": 0.98, "mid": 0.85}
	f.transport.handle("getScore", func(c call) (any, error) { return scores[c.target], nil })

	matches := []*Match{newMatch(f.client, "low"), newMatch(f.client, "high"), newMatch(f.client, "mid")}
	if err := SortByScore(context.Background(), matches); err != nil {
		t.Fatalf("SortByScore: %v", err)
	}
	for i, want := range []ObjectRef{"high", "mid", "low"} {
		if matches[i].RemoteRef() != want {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].RemoteRef(), want)
		}
	}
}

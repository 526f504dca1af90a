// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sikuli-go/sikuli/lib/clock"
	"github.com/sikuli-go/sikuli/lib/gateway"
)

// call is one request the fake transport received.
type call struct {
	kind   string // "new", "call", "static", "field", "set"
	target string // class or object reference
	method string
	args   []any
}

func (c call) String() string {
	return fmt.Sprintf("%s %s.%s%v", c.kind, c.target, c.method, c.args)
}

// fakeTransport answers calls from per-method handlers. Constructors
// return fresh references; unhandled calls return nil.
type fakeTransport struct {
	mu       sync.Mutex
	calls    []call
	handlers map[string]func(call) (any, error)
	fields   map[string]any
	next     int
	newErr   error
	closed   bool
	notify   chan call
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		handlers: make(map[string]func(call) (any, error)),
		fields:   make(map[string]any),
	}
}

func (f *fakeTransport) handle(method string, handler func(call) (any, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = handler
}

func (f *fakeTransport) returns(method string, value any) {
	f.handle(method, func(call) (any, error) { return value, nil })
}

func (f *fakeTransport) record(c call) func(call) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	handler := f.handlers[c.method]
	notify := f.notify
	f.mu.Unlock()
	if notify != nil {
		notify <- c
	}
	return handler
}

func (f *fakeTransport) New(_ context.Context, class string, args ...any) (ObjectRef, error) {
	f.record(call{kind: "new", target: class, args: args})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.newErr != nil {
		return "", f.newErr
	}
	f.next++
	return ObjectRef(fmt.Sprintf("o%d", f.next)), nil
}

func (f *fakeTransport) Call(_ context.Context, target ObjectRef, method string, args ...any) (any, error) {
	c := call{kind: "call", target: string(target), method: method, args: args}
	if handler := f.record(c); handler != nil {
		return handler(c)
	}
	return nil, nil
}

func (f *fakeTransport) CallStatic(_ context.Context, class, method string, args ...any) (any, error) {
	c := call{kind: "static", target: class, method: method, args: args}
	if handler := f.record(c); handler != nil {
		return handler(c)
	}
	return nil, nil
}

func (f *fakeTransport) Field(_ context.Context, class, name string) (any, error) {
	f.record(call{kind: "field", target: class, method: name})
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.fields[class+"."+name]
	if !ok {
		return nil, &RemoteError{Class: "java.lang.NoSuchFieldException", Message: name}
	}
	return value, nil
}

func (f *fakeTransport) SetField(_ context.Context, class, name string, value any) error {
	f.record(call{kind: "set", target: class, method: name, args: []any{value}})
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[class+"."+name] = value
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// recorded returns the calls of the given kind and method, or all calls
// when method is empty.
func (f *fakeTransport) recorded(kind, method string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matching []call
	for _, c := range f.calls {
		if c.kind == kind && (method == "" || c.method == method) {
			matching = append(matching, c)
		}
	}
	return matching
}

func (f *fakeTransport) last(t *testing.T, method string) call {
	t.Helper()
	calls := f.recorded("call", method)
	if len(calls) == 0 {
		t.Fatalf("no call to %s", method)
	}
	return calls[len(calls)-1]
}

// fakeGateway counts EnsureReady calls.
type fakeGateway struct {
	mu     sync.Mutex
	calls  int
	err    error
	target gateway.Endpoint
}

func (g *fakeGateway) EnsureReady(context.Context) (gateway.Endpoint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return gateway.Endpoint{}, g.err
	}
	return g.target, nil
}

func (g *fakeGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fixture struct {
	transport *fakeTransport
	gateway   *fakeGateway
	clock     *clock.FakeClock
	client    *Client
	dials     []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		transport: newFakeTransport(),
		gateway:   &fakeGateway{target: gateway.Endpoint{Host: "127.0.0.1", Port: gateway.DefaultPort}},
		clock:     clock.Fake(time.Unix(1_700_000_000, 0)),
	}
	dial := func(_ context.Context, address string) (Transport, error) {
		f.dials = append(f.dials, address)
		return f.transport, nil
	}
	f.client = NewClient(f.gateway, dial, Options{
		WaitTimeout:  3 * time.Second,
		ScanInterval: 200 * time.Millisecond,
		Clock:        f.clock,
		Logger:       slog.New(slog.DiscardHandler),
	})
	t.Cleanup(func() { f.client.Close() })
	return f
}

// region returns a region wrapper without a constructor call.
func (f *fixture) region() *Region {
	return newRegion(f.client, "region")
}

var errConnection = errors.New("connection reset")

func findFailed() error {
	return &RemoteError{Class: "org.sikuli.script.FindFailed", Method: "find", Message: "can not find image"}
}

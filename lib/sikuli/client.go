// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sikuli-go/sikuli/lib/clock"
	"github.com/sikuli-go/sikuli/lib/gateway"
)

// Backend classes the wrappers talk to.
const (
	classRegion      = "org.sikuli.script.Region"
	classScreen      = "org.sikuli.script.Screen"
	classLocation    = "org.sikuli.script.Location"
	classPattern     = "org.sikuli.script.Pattern"
	classApp         = "org.sikuli.script.App"
	classKey         = "org.sikuli.script.Key"
	classKeyModifier = "org.sikuli.script.KeyModifier"
	classButton      = "org.sikuli.script.Button"
	classSettings    = "org.sikuli.basics.Settings"
)

// Gateway makes sure a backend is listening and says where.
// *gateway.Manager implements it.
type Gateway interface {
	EnsureReady(ctx context.Context) (gateway.Endpoint, error)
}

// Options tune client-side behavior. WaitTimeout and the similarity
// of individual patterns are unrelated: one bounds how long to look,
// the other how good a match must be.
type Options struct {
	// WaitTimeout bounds Wait and WaitVanish when called with a zero
	// timeout.
	WaitTimeout time.Duration

	// ScanInterval is the pause between lookups while waiting.
	ScanInterval time.Duration

	Clock  clock.Clock
	Logger *slog.Logger
}

// DefaultOptions matches the backend's own defaults: a three second
// auto-wait and five scans per second.
func DefaultOptions() Options {
	return Options{
		WaitTimeout:  3 * time.Second,
		ScanInterval: 200 * time.Millisecond,
	}
}

// Validate rejects non-positive durations.
func (o Options) Validate() error {
	var problems []error
	if o.WaitTimeout <= 0 {
		problems = append(problems, fmt.Errorf("wait timeout must be positive, got %v", o.WaitTimeout))
	}
	if o.ScanInterval <= 0 {
		problems = append(problems, fmt.Errorf("scan interval must be positive, got %v", o.ScanInterval))
	}
	return errors.Join(problems...)
}

// Client is the connection every wrapper object uses. Create one per
// program, pass it to constructors, and Close it at exit. The backend
// is started (through Gateway) and dialed on first use, and again on the
// first use after a transport failure.
type Client struct {
	gateway Gateway
	dial    Dialer
	options Options
	clock   clock.Clock
	logger  *slog.Logger

	mu   sync.Mutex
	link *link

	constants sync.Map // class + "." + name -> any
}

// link is one dialed transport. Failures compare links by pointer so a
// call that fails on an old transport cannot drop a newer one.
type link struct {
	Transport
}

// NewClient returns a client that reaches the backend through gw and
// dial. Zero option fields take their defaults.
func NewClient(gw Gateway, dial Dialer, options Options) *Client {
	defaults := DefaultOptions()
	if options.WaitTimeout <= 0 {
		options.WaitTimeout = defaults.WaitTimeout
	}
	if options.ScanInterval <= 0 {
		options.ScanInterval = defaults.ScanInterval
	}
	c := &Client{
		gateway: gw,
		dial:    dial,
		options: options,
		clock:   options.Clock,
		logger:  options.Logger,
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Options returns the effective options.
func (c *Client) Options() Options { return c.options }

// connection returns the shared transport. Without one it makes sure the
// backend is ready and dials it.
func (c *Client) connection(ctx context.Context) (*link, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.link != nil {
		return c.link, nil
	}
	endpoint, err := c.gateway.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	transport, err := c.dial(ctx, endpoint.Address())
	if err != nil {
		return nil, fmt.Errorf("connecting to gateway at %s: %w", endpoint.Address(), err)
	}
	c.logger.Debug("connected to gateway", "address", endpoint.Address())
	c.link = &link{Transport: transport}
	return c.link, nil
}

// Close drops the transport. The backend keeps running; stopping it
// is the gateway's job. A later call reconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	current := c.link
	c.link = nil
	c.mu.Unlock()
	if current == nil {
		return nil
	}
	return current.Close()
}

// finish inspects the outcome of a call on l. Backend exceptions and
// cancellations leave the transport alone; any other error means the
// connection is broken, so it is closed and the next call starts over
// with EnsureReady.
func (c *Client) finish(l *link, operation string, err error) error {
	if err == nil || IsRemote(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	c.logger.Debug("gateway call failed, dropping connection", "operation", operation, "error", err)
	c.mu.Lock()
	current := c.link == l
	if current {
		c.link = nil
	}
	c.mu.Unlock()
	if current {
		if closeErr := l.Close(); closeErr != nil {
			c.logger.Debug("closing broken connection", "error", closeErr)
		}
	}
	return err
}

func (c *Client) construct(ctx context.Context, class string, args ...any) (ObjectRef, error) {
	l, err := c.connection(ctx)
	if err != nil {
		return "", err
	}
	ref, err := l.New(ctx, class, encodeArgs(args)...)
	return ref, c.finish(l, "new "+class, err)
}

func (c *Client) call(ctx context.Context, target Remote, method string, args ...any) (any, error) {
	l, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	result, err := l.Call(ctx, target.RemoteRef(), method, encodeArgs(args)...)
	return result, c.finish(l, method, err)
}

func (c *Client) callStatic(ctx context.Context, class, method string, args ...any) (any, error) {
	l, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	result, err := l.CallStatic(ctx, class, method, encodeArgs(args)...)
	return result, c.finish(l, class+"."+method, err)
}

func (c *Client) field(ctx context.Context, class, name string) (any, error) {
	l, err := c.connection(ctx)
	if err != nil {
		return nil, err
	}
	value, err := l.Field(ctx, class, name)
	return value, c.finish(l, class+"."+name, err)
}

func (c *Client) setField(ctx context.Context, class, name string, value any) error {
	l, err := c.connection(ctx)
	if err != nil {
		return err
	}
	return c.finish(l, class+"."+name, l.SetField(ctx, class, name, value))
}

// constant reads a static field once and caches it for the life of
// the client.
func (c *Client) constant(ctx context.Context, class, name string) (any, error) {
	key := class + "." + name
	if value, ok := c.constants.Load(key); ok {
		return value, nil
	}
	value, err := c.field(ctx, class, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	c.constants.Store(key, value)
	return value, nil
}

// poll runs attempt until it reports done, the timeout passes, or ctx
// ends, pausing ScanInterval between attempts. A timeout is not an
// error: done is false.
func poll[T any](ctx context.Context, c *Client, timeout time.Duration, attempt func(context.Context) (T, bool, error)) (T, bool, error) {
	var zero T
	deadline := c.clock.NewTimer(timeout)
	defer deadline.Stop()
	ticker := c.clock.NewTicker(c.options.ScanInterval)
	defer ticker.Stop()

	for {
		value, done, err := attempt(ctx)
		if err != nil || done {
			return value, done, err
		}
		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		case <-deadline.C:
			return zero, false, nil
		case <-ticker.C:
		}
	}
}

func seconds(d time.Duration) float64 { return d.Seconds() }

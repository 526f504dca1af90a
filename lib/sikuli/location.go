// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import "context"

// Location is a point on the screen.
type Location struct {
	client *Client
	ref    ObjectRef
}

// NewLocation creates a point at (x, y).
func NewLocation(ctx context.Context, c *Client, x, y int) (*Location, error) {
	ref, err := c.construct(ctx, classLocation, x, y)
	if err != nil {
		return nil, err
	}
	return &Location{client: c, ref: ref}, nil
}

func (l *Location) RemoteRef() ObjectRef { return l.ref }

func (l *Location) X(ctx context.Context) (int, error) { return intCall(ctx, l.client, l, "getX") }
func (l *Location) Y(ctx context.Context) (int, error) { return intCall(ctx, l.client, l, "getY") }

// Offset returns a new point shifted by (dx, dy).
func (l *Location) Offset(ctx context.Context, dx, dy int) (*Location, error) {
	return locationCall(ctx, l.client, l, "offset", dx, dy)
}

func (l *Location) Above(ctx context.Context, distance int) (*Location, error) {
	return locationCall(ctx, l.client, l, "above", distance)
}

func (l *Location) Below(ctx context.Context, distance int) (*Location, error) {
	return locationCall(ctx, l.client, l, "below", distance)
}

func (l *Location) Left(ctx context.Context, distance int) (*Location, error) {
	return locationCall(ctx, l.client, l, "left", distance)
}

func (l *Location) Right(ctx context.Context, distance int) (*Location, error) {
	return locationCall(ctx, l.client, l, "right", distance)
}

// Helpers shared by the wrappers: call a method and convert the
// result.

func intCall(ctx context.Context, c *Client, target Remote, method string, args ...any) (int, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return 0, err
	}
	return asInt(result)
}

func floatCall(ctx context.Context, c *Client, target Remote, method string, args ...any) (float64, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return 0, err
	}
	return asFloat(result)
}

func boolCall(ctx context.Context, c *Client, target Remote, method string, args ...any) (bool, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return false, err
	}
	return asBool(result)
}

func stringCall(ctx context.Context, c *Client, target Remote, method string, args ...any) (string, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return "", err
	}
	return asString(result)
}

func refCall(ctx context.Context, c *Client, target Remote, method string, args ...any) (ObjectRef, error) {
	result, err := c.call(ctx, target, method, args...)
	if err != nil {
		return "", err
	}
	return asRef(result)
}

func locationCall(ctx context.Context, c *Client, target Remote, method string, args ...any) (*Location, error) {
	ref, err := refCall(ctx, c, target, method, args...)
	if err != nil || ref == "" {
		return nil, err
	}
	return &Location{client: c, ref: ref}, nil
}

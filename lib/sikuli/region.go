// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"time"
)

// Region is a rectangle of the screen that can be searched and acted
// on.
type Region struct {
	area
}

// NewRegion creates a region with the given bounds.
func NewRegion(ctx context.Context, c *Client, rect Rect) (*Region, error) {
	ref, err := c.construct(ctx, classRegion, rect.X, rect.Y, rect.W, rect.H)
	if err != nil {
		return nil, err
	}
	return newRegion(c, ref), nil
}

func newRegion(c *Client, ref ObjectRef) *Region {
	return &Region{area{client: c, ref: ref}}
}

func (r *Region) regionCall(ctx context.Context, method string, args ...any) (*Region, error) {
	ref, err := refCall(ctx, r.client, r, method, args...)
	if err != nil || ref == "" {
		return nil, err
	}
	return newRegion(r.client, ref), nil
}

func (r *Region) set(ctx context.Context, method string, args ...any) error {
	_, err := r.client.call(ctx, r, method, args...)
	return err
}

func (r *Region) SetX(ctx context.Context, x int) error { return r.set(ctx, "setX", x) }
func (r *Region) SetY(ctx context.Context, y int) error { return r.set(ctx, "setY", y) }
func (r *Region) SetW(ctx context.Context, w int) error { return r.set(ctx, "setW", w) }
func (r *Region) SetH(ctx context.Context, h int) error { return r.set(ctx, "setH", h) }

// SetRect replaces the region's bounds.
func (r *Region) SetRect(ctx context.Context, rect Rect) error {
	return r.set(ctx, "setRect", rect.X, rect.Y, rect.W, rect.H)
}

// SetROI limits searches in the region to rect.
func (r *Region) SetROI(ctx context.Context, rect Rect) error {
	return r.set(ctx, "setROI", rect.X, rect.Y, rect.W, rect.H)
}

// MoveTo moves the region's top-left corner to location, keeping its
// size.
func (r *Region) MoveTo(ctx context.Context, location *Location) error {
	return r.set(ctx, "moveTo", location)
}

// Find looks for target once. It returns nil without an error when the
// backend reports the target is not there; errors are transport or
// argument failures.
func (r *Region) Find(ctx context.Context, target any) (*Match, error) {
	encoded, err := encodeTarget(target)
	if err != nil {
		return nil, err
	}
	if encoded == nil {
		return nil, ErrBadTarget
	}
	ref, err := refCall(ctx, r.client, r, "find", encoded)
	return matchOrNothing(r.client, ref, err)
}

// FindAll returns every occurrence of target, best first. No
// occurrence is an empty result, not an error.
func (r *Region) FindAll(ctx context.Context, target any) ([]*Match, error) {
	encoded, err := encodeTarget(target)
	if err != nil {
		return nil, err
	}
	if encoded == nil {
		return nil, ErrBadTarget
	}
	result, err := r.client.call(ctx, r, "findAll", encoded)
	if IsRemote(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	refs, err := asRefs(result)
	if err != nil {
		return nil, err
	}
	matches := make([]*Match, len(refs))
	for i, ref := range refs {
		matches[i] = newMatch(r.client, ref)
	}
	return matches, nil
}

// Wait looks for target every scan interval until it appears or
// timeout passes. A zero timeout uses the client's WaitTimeout. Not
// appearing in time yields nil without an error.
func (r *Region) Wait(ctx context.Context, target any, timeout time.Duration) (*Match, error) {
	if timeout <= 0 {
		timeout = r.client.options.WaitTimeout
	}
	match, _, err := poll(ctx, r.client, timeout, func(ctx context.Context) (*Match, bool, error) {
		match, err := r.Find(ctx, target)
		return match, match != nil, err
	})
	return match, err
}

// WaitVanish waits until target is no longer found. It reports whether
// the target vanished within timeout.
func (r *Region) WaitVanish(ctx context.Context, target any, timeout time.Duration) (bool, error) {
	if timeout <= 0 {
		timeout = r.client.options.WaitTimeout
	}
	_, vanished, err := poll(ctx, r.client, timeout, func(ctx context.Context) (struct{}, bool, error) {
		match, err := r.Find(ctx, target)
		return struct{}{}, match == nil && err == nil, err
	})
	return vanished, err
}

// Exists asks the backend to look for target for up to timeout and
// returns the match, or nil.
func (r *Region) Exists(ctx context.Context, target any, timeout time.Duration) (*Match, error) {
	encoded, err := encodeTarget(target)
	if err != nil {
		return nil, err
	}
	if encoded == nil {
		return nil, ErrBadTarget
	}
	ref, err := refCall(ctx, r.client, r, "exists", encoded, seconds(timeout))
	return matchOrNothing(r.client, ref, err)
}

// LastMatch returns the result of the most recent successful find in
// this region, or nil.
func (r *Region) LastMatch(ctx context.Context) (*Match, error) {
	ref, err := refCall(ctx, r.client, r, "getLastMatch")
	return matchOrNothing(r.client, ref, err)
}

// LastMatches returns the results of the most recent FindAll.
func (r *Region) LastMatches(ctx context.Context) ([]*Match, error) {
	result, err := r.client.call(ctx, r, "getLastMatches")
	if IsRemote(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	refs, err := asRefs(result)
	if err != nil {
		return nil, err
	}
	matches := make([]*Match, len(refs))
	for i, ref := range refs {
		matches[i] = newMatch(r.client, ref)
	}
	return matches, nil
}

// Above returns the band of height above the region, as wide as the
// region. Below, Left and Right are analogous.
func (r *Region) Above(ctx context.Context, height int) (*Region, error) {
	return r.regionCall(ctx, "above", height)
}

func (r *Region) Below(ctx context.Context, height int) (*Region, error) {
	return r.regionCall(ctx, "below", height)
}

func (r *Region) Left(ctx context.Context, width int) (*Region, error) {
	return r.regionCall(ctx, "left", width)
}

func (r *Region) Right(ctx context.Context, width int) (*Region, error) {
	return r.regionCall(ctx, "right", width)
}

// Nearby returns the region expanded by distance on every side.
func (r *Region) Nearby(ctx context.Context, distance int) (*Region, error) {
	return r.regionCall(ctx, "nearby", distance)
}

// Grow is Nearby with separate horizontal and vertical margins.
func (r *Region) Grow(ctx context.Context, horizontal, vertical int) (*Region, error) {
	return r.regionCall(ctx, "grow", horizontal, vertical)
}

// matchOrNothing turns a lookup result into a Match. Backend
// exceptions (FindFailed and the like) mean "not found".
func matchOrNothing(c *Client, ref ObjectRef, err error) (*Match, error) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return nil, nil
	}
	if err != nil || ref == "" {
		return nil, err
	}
	return newMatch(c, ref), nil
}

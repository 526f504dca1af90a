// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"fmt"
)

// Screen is a whole monitor. It is a Region covering the monitor's
// bounds.
type Screen struct {
	Region
	id int
}

// NewScreen opens monitor id; 0 is the primary monitor.
func NewScreen(ctx context.Context, c *Client, id int) (*Screen, error) {
	if id < 0 {
		return nil, fmt.Errorf("screen id must not be negative, got %d", id)
	}
	ref, err := c.construct(ctx, classScreen, id)
	if err != nil {
		return nil, err
	}
	return &Screen{Region: Region{area{client: c, ref: ref}}, id: id}, nil
}

// NumberScreens reports how many monitors the backend sees.
func NumberScreens(ctx context.Context, c *Client) (int, error) {
	result, err := c.callStatic(ctx, classScreen, "getNumberScreens")
	if err != nil {
		return 0, err
	}
	return asInt(result)
}

func (s *Screen) ID() int { return s.id }

// Capture grabs the whole screen.
func (s *Screen) Capture(ctx context.Context) (*Image, error) {
	return s.capture(ctx)
}

// CaptureRect grabs rect in screen coordinates.
func (s *Screen) CaptureRect(ctx context.Context, rect Rect) (*Image, error) {
	return s.capture(ctx, rect.X, rect.Y, rect.W, rect.H)
}

// CaptureArea grabs the bounds of another region or match.
func (s *Screen) CaptureArea(ctx context.Context, target Area) (*Image, error) {
	return s.capture(ctx, target)
}

func (s *Screen) capture(ctx context.Context, args ...any) (*Image, error) {
	ref, err := refCall(ctx, s.client, s, "capture", args...)
	if err != nil {
		return nil, err
	}
	return &Image{client: s.client, ref: ref}, nil
}

// Image is a captured screenshot held by the backend.
type Image struct {
	client *Client
	ref    ObjectRef
}

func (i *Image) RemoteRef() ObjectRef { return i.ref }

// File saves the image if needed and returns its path on the backend's
// filesystem.
func (i *Image) File(ctx context.Context) (string, error) {
	return stringCall(ctx, i.client, i, "getFile")
}

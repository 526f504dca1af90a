// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrImageNotFound means a pattern or mask image file does not exist.
var ErrImageNotFound = errors.New("image file not found")

// Pattern is an image to look for, with its match settings. Each
// setter returns a new Pattern; the receiver is unchanged.
type Pattern struct {
	client *Client
	ref    ObjectRef
}

// NewPattern creates a pattern for the image at path. The file must
// exist locally; the backend reads it from the same filesystem.
func NewPattern(ctx context.Context, c *Client, path string) (*Pattern, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	ref, err := c.construct(ctx, classPattern, path)
	if err != nil {
		return nil, err
	}
	return &Pattern{client: c, ref: ref}, nil
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrImageNotFound, path)
	}
	return nil
}

func (p *Pattern) RemoteRef() ObjectRef { return p.ref }

func (p *Pattern) derive(ctx context.Context, method string, args ...any) (*Pattern, error) {
	ref, err := refCall(ctx, p.client, p, method, args...)
	if err != nil {
		return nil, err
	}
	return &Pattern{client: p.client, ref: ref}, nil
}

// Similar sets the minimum match score, between 0 and 1.
func (p *Pattern) Similar(ctx context.Context, score float64) (*Pattern, error) {
	if score < 0 || score > 1 {
		return nil, fmt.Errorf("similarity %v outside 0..1", score)
	}
	return p.derive(ctx, "similar", score)
}

// Exact requires a near-perfect match.
func (p *Pattern) Exact(ctx context.Context) (*Pattern, error) {
	return p.derive(ctx, "exact")
}

// Resize scales the image before matching.
func (p *Pattern) Resize(ctx context.Context, factor float64) (*Pattern, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("resize factor must be positive, got %v", factor)
	}
	return p.derive(ctx, "resize", factor)
}

// TargetOffset moves the click point relative to the match center.
func (p *Pattern) TargetOffset(ctx context.Context, dx, dy int) (*Pattern, error) {
	return p.derive(ctx, "targetOffset", dx, dy)
}

// Mask restricts matching to the non-transparent pixels of the image
// at path.
func (p *Pattern) Mask(ctx context.Context, path string) (*Pattern, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	return p.derive(ctx, "mask", path)
}

func (p *Pattern) Filename(ctx context.Context) (string, error) {
	return stringCall(ctx, p.client, p, "getFilename")
}

func (p *Pattern) Similarity(ctx context.Context) (float64, error) {
	return floatCall(ctx, p.client, p, "getSimilar")
}

func (p *Pattern) Offset(ctx context.Context) (*Location, error) {
	return locationCall(ctx, p.client, p, "getTargetOffset")
}

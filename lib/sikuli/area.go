// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBadTarget is returned for a target that is neither nil, an image
// path, nor a backend object.
var ErrBadTarget = errors.New("target must be nil, an image path, or a backend object")

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, W, H int
}

// Area is the behavior shared by everything that covers part of the
// screen: regions, screens and matches. Mouse and keyboard actions
// return the number of actions performed, as the backend does.
//
// A target is nil (act on the area itself), an image path string, or
// a Remote such as *Pattern, *Location, *Region or *Match.
type Area interface {
	Remote

	X(ctx context.Context) (int, error)
	Y(ctx context.Context) (int, error)
	W(ctx context.Context) (int, error)
	H(ctx context.Context) (int, error)
	Bounds(ctx context.Context) (Rect, error)
	Center(ctx context.Context) (*Location, error)
	TopLeft(ctx context.Context) (*Location, error)
	TopRight(ctx context.Context) (*Location, error)
	BottomLeft(ctx context.Context) (*Location, error)
	BottomRight(ctx context.Context) (*Location, error)

	Click(ctx context.Context, target any, modifiers ...Modifier) (int, error)
	DoubleClick(ctx context.Context, target any, modifiers ...Modifier) (int, error)
	RightClick(ctx context.Context, target any, modifiers ...Modifier) (int, error)
	Hover(ctx context.Context, target any) (int, error)
	DragDrop(ctx context.Context, from, to any) (int, error)
	MouseDown(ctx context.Context, button ButtonName) error
	MouseUp(ctx context.Context, button ButtonName) error
	MouseMove(ctx context.Context, dx, dy int) (int, error)
	Wheel(ctx context.Context, direction ButtonName, steps int) (int, error)

	Type(ctx context.Context, text string, modifiers ...Modifier) (int, error)
	TypeAt(ctx context.Context, target any, text string, modifiers ...Modifier) (int, error)
	Paste(ctx context.Context, text string) (int, error)
	KeyDown(ctx context.Context, key KeyName) error
	KeyUp(ctx context.Context, key KeyName) error

	Highlight(ctx context.Context, duration time.Duration) error
	Text(ctx context.Context) (string, error)
}

// area implements Area for any backend object that is a region. Region,
// Screen and Match embed it.
type area struct {
	client *Client
	ref    ObjectRef
}

func (a *area) RemoteRef() ObjectRef { return a.ref }

// Client returns the client the object belongs to.
func (a *area) Client() *Client { return a.client }

func (a *area) X(ctx context.Context) (int, error) { return intCall(ctx, a.client, a, "getX") }
func (a *area) Y(ctx context.Context) (int, error) { return intCall(ctx, a.client, a, "getY") }
func (a *area) W(ctx context.Context) (int, error) { return intCall(ctx, a.client, a, "getW") }
func (a *area) H(ctx context.Context) (int, error) { return intCall(ctx, a.client, a, "getH") }

func (a *area) Bounds(ctx context.Context) (Rect, error) {
	var rect Rect
	for _, field := range []struct {
		method string
		dest   *int
	}{
		{"getX", &rect.X}, {"getY", &rect.Y}, {"getW", &rect.W}, {"getH", &rect.H},
	} {
		value, err := intCall(ctx, a.client, a, field.method)
		if err != nil {
			return Rect{}, err
		}
		*field.dest = value
	}
	return rect, nil
}

func (a *area) Center(ctx context.Context) (*Location, error) {
	return locationCall(ctx, a.client, a, "getCenter")
}

func (a *area) TopLeft(ctx context.Context) (*Location, error) {
	return locationCall(ctx, a.client, a, "getTopLeft")
}

func (a *area) TopRight(ctx context.Context) (*Location, error) {
	return locationCall(ctx, a.client, a, "getTopRight")
}

func (a *area) BottomLeft(ctx context.Context) (*Location, error) {
	return locationCall(ctx, a.client, a, "getBottomLeft")
}

func (a *area) BottomRight(ctx context.Context) (*Location, error) {
	return locationCall(ctx, a.client, a, "getBottomRight")
}

// encodeTarget validates a target argument.
func encodeTarget(target any) (any, error) {
	switch value := target.(type) {
	case nil, string:
		return value, nil
	case Remote:
		if value.RemoteRef() == "" {
			return nil, fmt.Errorf("%w: empty reference", ErrBadTarget)
		}
		return value, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrBadTarget, target)
}

// mouseAction runs a click-style method. With no target and no
// modifiers the backend acts on the area itself; with modifiers the
// area is passed explicitly as the target.
func (a *area) mouseAction(ctx context.Context, method string, target any, modifiers []Modifier) (int, error) {
	encoded, err := encodeTarget(target)
	if err != nil {
		return 0, err
	}
	if len(modifiers) == 0 {
		if encoded == nil {
			return intCall(ctx, a.client, a, method)
		}
		return intCall(ctx, a.client, a, method, encoded)
	}
	mask, err := a.client.modifierMask(ctx, modifiers)
	if err != nil {
		return 0, err
	}
	if encoded == nil {
		encoded = a
	}
	return intCall(ctx, a.client, a, method, encoded, mask)
}

func (a *area) Click(ctx context.Context, target any, modifiers ...Modifier) (int, error) {
	return a.mouseAction(ctx, "click", target, modifiers)
}

func (a *area) DoubleClick(ctx context.Context, target any, modifiers ...Modifier) (int, error) {
	return a.mouseAction(ctx, "doubleClick", target, modifiers)
}

func (a *area) RightClick(ctx context.Context, target any, modifiers ...Modifier) (int, error) {
	return a.mouseAction(ctx, "rightClick", target, modifiers)
}

func (a *area) Hover(ctx context.Context, target any) (int, error) {
	return a.mouseAction(ctx, "hover", target, nil)
}

func (a *area) DragDrop(ctx context.Context, from, to any) (int, error) {
	source, err := encodeTarget(from)
	if err != nil {
		return 0, err
	}
	destination, err := encodeTarget(to)
	if err != nil {
		return 0, err
	}
	if source == nil || destination == nil {
		return 0, fmt.Errorf("%w: drag and drop needs both ends", ErrBadTarget)
	}
	return intCall(ctx, a.client, a, "dragDrop", source, destination)
}

func (a *area) MouseDown(ctx context.Context, button ButtonName) error {
	code, err := a.client.Button(ctx, button)
	if err != nil {
		return err
	}
	_, err = a.client.call(ctx, a, "mouseDown", code)
	return err
}

// MouseUp releases button, or every held button when button is empty.
func (a *area) MouseUp(ctx context.Context, button ButtonName) error {
	if button == "" {
		_, err := a.client.call(ctx, a, "mouseUp")
		return err
	}
	code, err := a.client.Button(ctx, button)
	if err != nil {
		return err
	}
	_, err = a.client.call(ctx, a, "mouseUp", code)
	return err
}

// MouseMove moves the pointer by (dx, dy) from its current position.
func (a *area) MouseMove(ctx context.Context, dx, dy int) (int, error) {
	return intCall(ctx, a.client, a, "mouseMove", dx, dy)
}

// Wheel turns the wheel steps notches; direction is ButtonWheelUp or
// ButtonWheelDown.
func (a *area) Wheel(ctx context.Context, direction ButtonName, steps int) (int, error) {
	if direction != ButtonWheelUp && direction != ButtonWheelDown {
		return 0, fmt.Errorf("wheel direction must be %s or %s, got %q", ButtonWheelUp, ButtonWheelDown, direction)
	}
	code, err := a.client.Button(ctx, direction)
	if err != nil {
		return 0, err
	}
	return intCall(ctx, a.client, a, "wheel", code, steps)
}

func (a *area) Type(ctx context.Context, text string, modifiers ...Modifier) (int, error) {
	if len(modifiers) == 0 {
		return intCall(ctx, a.client, a, "type", text)
	}
	mask, err := a.client.modifierMask(ctx, modifiers)
	if err != nil {
		return 0, err
	}
	return intCall(ctx, a.client, a, "type", text, mask)
}

// TypeAt clicks target, then types text.
func (a *area) TypeAt(ctx context.Context, target any, text string, modifiers ...Modifier) (int, error) {
	encoded, err := encodeTarget(target)
	if err != nil {
		return 0, err
	}
	if encoded == nil {
		return a.Type(ctx, text, modifiers...)
	}
	mask, err := a.client.modifierMask(ctx, modifiers)
	if err != nil {
		return 0, err
	}
	return intCall(ctx, a.client, a, "type", encoded, text, mask)
}

// Paste puts text on the clipboard and pastes it, which handles
// characters Type cannot produce.
func (a *area) Paste(ctx context.Context, text string) (int, error) {
	return intCall(ctx, a.client, a, "paste", text)
}

func (a *area) KeyDown(ctx context.Context, key KeyName) error {
	text, err := a.client.Key(ctx, key)
	if err != nil {
		return err
	}
	_, err = a.client.call(ctx, a, "keyDown", text)
	return err
}

// KeyUp releases key, or every held key when key is empty.
func (a *area) KeyUp(ctx context.Context, key KeyName) error {
	if key == "" {
		_, err := a.client.call(ctx, a, "keyUp")
		return err
	}
	text, err := a.client.Key(ctx, key)
	if err != nil {
		return err
	}
	_, err = a.client.call(ctx, a, "keyUp", text)
	return err
}

// Highlight outlines the area on screen for duration.
func (a *area) Highlight(ctx context.Context, duration time.Duration) error {
	_, err := a.client.call(ctx, a, "highlight", seconds(duration))
	return err
}

// Text returns the text the backend reads in the area (OCR).
func (a *area) Text(ctx context.Context) (string, error) {
	return stringCall(ctx, a.client, a, "text")
}

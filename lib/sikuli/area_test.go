// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Region, Screen and Match all satisfy Area.
var (
	_ Area = (*Region)(nil)
	_ Area = (*Screen)(nil)
	_ Area = (*Match)(nil)
)

func TestClickWithoutTargetActsOnArea(t *testing.T) {
	f := newFixture(t)
	f.transport.returns("click", int64(1))

	n, err := f.region().Click(context.Background(), nil)
	if err != nil || n != 1 {
		t.Fatalf("Click = %d, %v", n, err)
	}
	if got := f.transport.last(t, "click"); len(got.args) != 0 {
		t.Errorf("click args = %v, want none", got.args)
	}
}

func TestClickWithModifiers(t *testing.T) {
	f := newFixture(t)
	f.transport.fields[classKeyModifier+".CTRL"] = int64(2)
	f.transport.returns("click", int64(1))
	region := f.region()

	if _, err := region.Click(context.Background(), nil, ModCtrl); err != nil {
		t.Fatalf("Click: %v", err)
	}
	got := f.transport.last(t, "click")
	if len(got.args) != 2 || got.args[0] != ObjectRef("region") || got.args[1] != 2 {
		t.Errorf("click args = %v, want [region 2]", got.args)
	}
}

func TestDragDropNeedsBothEnds(t *testing.T) {
	f := newFixture(t)
	if _, err := f.region().DragDrop(context.Background(), "a.png", nil); !errors.Is(err, ErrBadTarget) {
		t.Errorf("error = %v, want ErrBadTarget", err)
	}
}

func TestBounds(t *testing.T) {
	f := newFixture(t)
	values := map[string]any{"getX": int64(10), "getY": int64(20), "getW": int64(300), "getH": float64(40)}
	for method, value := range values {
		f.transport.returns(method, value)
	}
	rect, err := f.region().Bounds(context.Background())
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if rect != (Rect{X: 10, Y: 20, W: 300, H: 40}) {
		t.Errorf("rect = %+v", rect)
	}
}

func TestWheelDirection(t *testing.T) {
	f := newFixture(t)
	if _, err := f.region().Wheel(context.Background(), ButtonLeft, 3); err == nil {
		t.Fatal("Wheel with a mouse button accepted")
	}
	f.transport.fields[classButton+".WHEEL_DOWN"] = int64(-1)
	f.transport.returns("wheel", int64(1))
	if _, err := f.region().Wheel(context.Background(), ButtonWheelDown, 3); err != nil {
		t.Fatalf("Wheel: %v", err)
	}
	if got := f.transport.last(t, "wheel"); got.args[0] != -1 || got.args[1] != 3 {
		t.Errorf("wheel args = %v", got.args)
	}
}

func TestReleaseAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.region().KeyUp(ctx, ""); err != nil {
		t.Fatalf("KeyUp: %v", err)
	}
	if err := f.region().MouseUp(ctx, ""); err != nil {
		t.Fatalf("MouseUp: %v", err)
	}
	if len(f.transport.last(t, "keyUp").args) != 0 || len(f.transport.last(t, "mouseUp").args) != 0 {
		t.Error("release-all calls carried arguments")
	}
	if lookups := f.transport.recorded("field", ""); len(lookups) != 0 {
		t.Errorf("release-all looked up constants: %v", lookups)
	}
}

func TestHighlightInSeconds(t *testing.T) {
	f := newFixture(t)
	if err := f.region().Highlight(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	if got := f.transport.last(t, "highlight"); got.args[0] != 2.0 {
		t.Errorf("highlight arg = %v, want 2", got.args[0])
	}
}

func TestScreenCapture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	screen, err := NewScreen(ctx, f.client, 0)
	if err != nil {
		t.Fatalf("NewScreen: %v", err)
	}
	f.transport.returns("capture", ObjectRef("img"))
	f.transport.returns("getFile", "/tmp/capture.png")

	image, err := screen.CaptureRect(ctx, Rect{W: 100, H: 50})
	if err != nil {
		t.Fatalf("CaptureRect: %v", err)
	}
	path, err := image.File(ctx)
	if err != nil || path != "/tmp/capture.png" {
		t.Fatalf("File = %q, %v", path, err)
	}

	if _, err := NewScreen(ctx, f.client, -1); err == nil {
		t.Error("negative screen id accepted")
	}
}

func TestNumberScreens(t *testing.T) {
	f := newFixture(t)
	f.transport.returns("getNumberScreens", int32(2))
	n, err := NumberScreens(context.Background(), f.client)
	if err != nil || n != 2 {
		t.Fatalf("NumberScreens = %d, %v", n, err)
	}
	if calls := f.transport.recorded("static", "getNumberScreens"); len(calls) != 1 || calls[0].target != classScreen {
		t.Errorf("static calls = %v", calls)
	}
}

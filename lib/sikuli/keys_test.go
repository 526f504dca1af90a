// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"testing"
)

func TestKeyLookupIsCached(t *testing.T) {
	f := newFixture(t)
	f.transport.fields[classKey+".ENTER"] = "\n"
	ctx := context.Background()

	for range 3 {
		text, err := f.client.Key(ctx, KeyEnter)
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		if text != "\n" {
			t.Fatalf("Key(ENTER) = %q", text)
		}
	}
	if got := len(f.transport.recorded("field", "ENTER")); got != 1 {
		t.Errorf("field lookups = %d, want 1", got)
	}
}

func TestUnknownKey(t *testing.T) {
	f := newFixture(t)
	if _, err := f.client.Key(context.Background(), KeyName("NOPE")); err == nil {
		t.Fatal("unknown key resolved")
	}
	// A failed lookup is not cached.
	f.transport.fields[classKey+".NOPE"] = "x"
	if _, err := f.client.Key(context.Background(), KeyName("NOPE")); err != nil {
		t.Fatalf("Key after field appeared: %v", err)
	}
}

func TestButtonCodes(t *testing.T) {
	f := newFixture(t)
	f.transport.fields[classButton+".LEFT"] = int64(16)
	code, err := f.client.Button(context.Background(), ButtonLeft)
	if err != nil {
		t.Fatalf("Button: %v", err)
	}
	if code != 16 {
		t.Errorf("Button(LEFT) = %d, want 16", code)
	}
}

func TestModifierMask(t *testing.T) {
	f := newFixture(t)
	f.transport.fields[classKeyModifier+".CTRL"] = int32(2)
	f.transport.fields[classKeyModifier+".SHIFT"] = int32(1)

	mask, err := f.client.modifierMask(context.Background(), []Modifier{ModCtrl, ModShift})
	if err != nil {
		t.Fatalf("modifierMask: %v", err)
	}
	if mask != 3 {
		t.Errorf("mask = %d, want 3", mask)
	}
}

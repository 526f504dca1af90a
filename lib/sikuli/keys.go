// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"fmt"
)

// KeyName names a special key. The text the backend expects for it is
// looked up once per client with Client.Key.
type KeyName string

const (
	KeyUp          KeyName = "UP"
	KeyDown        KeyName = "DOWN"
	KeyLeft        KeyName = "LEFT"
	KeyRight       KeyName = "RIGHT"
	KeyF1          KeyName = "F1"
	KeyF2          KeyName = "F2"
	KeyF3          KeyName = "F3"
	KeyF4          KeyName = "F4"
	KeyF5          KeyName = "F5"
	KeyF6          KeyName = "F6"
	KeyF7          KeyName = "F7"
	KeyF8          KeyName = "F8"
	KeyF9          KeyName = "F9"
	KeyF10         KeyName = "F10"
	KeyF11         KeyName = "F11"
	KeyF12         KeyName = "F12"
	KeyF13         KeyName = "F13"
	KeyF14         KeyName = "F14"
	KeyF15         KeyName = "F15"
	KeyAlt         KeyName = "ALT"
	KeyBackspace   KeyName = "BACKSPACE"
	KeyDelete      KeyName = "DELETE"
	KeyEnd         KeyName = "END"
	KeyEnter       KeyName = "ENTER"
	KeyEsc         KeyName = "ESC"
	KeyHome        KeyName = "HOME"
	KeyInsert      KeyName = "INSERT"
	KeyCapsLock    KeyName = "CAPS_LOCK"
	KeyCmd         KeyName = "CMD"
	KeyCtrl        KeyName = "CTRL"
	KeyPageDown    KeyName = "PAGE_DOWN"
	KeyPageUp      KeyName = "PAGE_UP"
	KeyPause       KeyName = "PAUSE"
	KeyPrintScreen KeyName = "PRINTSCREEN"
	KeyScrollLock  KeyName = "SCROLL_LOCK"
	KeySeparator   KeyName = "SEPARATOR"
	KeyShift       KeyName = "SHIFT"
	KeySpace       KeyName = "SPACE"
	KeyTab         KeyName = "TAB"
	KeyWin         KeyName = "WIN"
	KeyNumLock     KeyName = "NUM_LOCK"
	KeyAdd         KeyName = "ADD"
	KeyMinus       KeyName = "MINUS"
	KeyDivide      KeyName = "DIVIDE"
	KeyMultiply    KeyName = "MULTIPLY"
	KeyDecimal     KeyName = "DECIMAL"
	KeyNum0        KeyName = "NUM0"
	KeyNum1        KeyName = "NUM1"
	KeyNum2        KeyName = "NUM2"
	KeyNum3        KeyName = "NUM3"
	KeyNum4        KeyName = "NUM4"
	KeyNum5        KeyName = "NUM5"
	KeyNum6        KeyName = "NUM6"
	KeyNum7        KeyName = "NUM7"
	KeyNum8        KeyName = "NUM8"
	KeyNum9        KeyName = "NUM9"
)

// Modifier names a modifier key held during a mouse or keyboard
// action.
type Modifier string

const (
	ModCtrl  Modifier = "CTRL"
	ModShift Modifier = "SHIFT"
	ModAlt   Modifier = "ALT"
	ModAltGr Modifier = "ALTGR"
	ModMeta  Modifier = "META"
	ModCmd   Modifier = "CMD"
	ModWin   Modifier = "WIN"
)

// ButtonName names a mouse button or wheel direction.
type ButtonName string

const (
	ButtonLeft      ButtonName = "LEFT"
	ButtonMiddle    ButtonName = "MIDDLE"
	ButtonRight     ButtonName = "RIGHT"
	ButtonWheelUp   ButtonName = "WHEEL_UP"
	ButtonWheelDown ButtonName = "WHEEL_DOWN"
)

// Key returns the text the backend types for the named key. Append it
// to the text passed to Type to press the key in sequence.
func (c *Client) Key(ctx context.Context, name KeyName) (string, error) {
	value, err := c.constant(ctx, classKey, string(name))
	if err != nil {
		return "", err
	}
	text, err := asString(value)
	if err != nil {
		return "", fmt.Errorf("key %s: %w", name, err)
	}
	return text, nil
}

// Button returns the backend code for the named button.
func (c *Client) Button(ctx context.Context, name ButtonName) (int, error) {
	value, err := c.constant(ctx, classButton, string(name))
	if err != nil {
		return 0, err
	}
	code, err := asInt(value)
	if err != nil {
		return 0, fmt.Errorf("button %s: %w", name, err)
	}
	return code, nil
}

// modifierMask ORs the backend codes of modifiers.
func (c *Client) modifierMask(ctx context.Context, modifiers []Modifier) (int, error) {
	mask := 0
	for _, modifier := range modifiers {
		value, err := c.constant(ctx, classKeyModifier, string(modifier))
		if err != nil {
			return 0, err
		}
		code, err := asInt(value)
		if err != nil {
			return 0, fmt.Errorf("modifier %s: %w", modifier, err)
		}
		mask |= code
	}
	return mask, nil
}

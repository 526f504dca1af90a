// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"fmt"
)

// FloatSetting names a numeric global setting of the backend.
type FloatSetting string

const (
	MinSimilarity    FloatSetting = "MinSimilarity"
	MoveMouseDelay   FloatSetting = "MoveMouseDelay"
	DelayBeforeMouse FloatSetting = "DelayBeforeMouseDown"
	DelayBeforeDrag  FloatSetting = "DelayBeforeDrag"
	DelayBeforeDrop  FloatSetting = "DelayBeforeDrop"
	TypeDelay        FloatSetting = "TypeDelay"
	ClickDelay       FloatSetting = "ClickDelay"
	WaitScanRate     FloatSetting = "WaitScanRate"
	ObserveScanRate  FloatSetting = "ObserveScanRate"
	AutoWaitTimeout  FloatSetting = "AutoWaitTimeout"
)

// BoolSetting names a switch among the backend's global settings.
type BoolSetting string

const (
	ActionLogs     BoolSetting = "ActionLogs"
	InfoLogs       BoolSetting = "InfoLogs"
	DebugLogs      BoolSetting = "DebugLogs"
	ThrowException BoolSetting = "ThrowException"
	AlwaysResize   BoolSetting = "AlwaysResize"
	Highlight      BoolSetting = "Highlight"
	OcrTextSearch  BoolSetting = "OcrTextSearch"
	OcrTextRead    BoolSetting = "OcrTextRead"
	CheckLastSeen  BoolSetting = "CheckLastSeen"
	ShowActions    BoolSetting = "ShowActions"
)

// Settings reads and writes the backend's global settings. They are
// process-wide in the backend and shared by every client.
type Settings struct {
	client *Client
}

// Settings returns the settings accessor for the client's backend.
func (c *Client) Settings() Settings { return Settings{client: c} }

func (s Settings) Float(ctx context.Context, name FloatSetting) (float64, error) {
	value, err := s.client.field(ctx, classSettings, string(name))
	if err != nil {
		return 0, err
	}
	return asFloat(value)
}

// SetFloat assigns a numeric setting. MinSimilarity must lie in 0..1
// and delays and rates must not be negative.
func (s Settings) SetFloat(ctx context.Context, name FloatSetting, value float64) error {
	if name == MinSimilarity && (value < 0 || value > 1) {
		return fmt.Errorf("%s %v outside 0..1", name, value)
	}
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %v", name, value)
	}
	return s.client.setField(ctx, classSettings, string(name), value)
}

func (s Settings) Bool(ctx context.Context, name BoolSetting) (bool, error) {
	value, err := s.client.field(ctx, classSettings, string(name))
	if err != nil {
		return false, err
	}
	return asBool(value)
}

func (s Settings) SetBool(ctx context.Context, name BoolSetting, value bool) error {
	return s.client.setField(ctx, classSettings, string(name), value)
}

func (s Settings) static(ctx context.Context, method string) (any, error) {
	return s.client.callStatic(ctx, classSettings, method)
}

// Version is the backend's version string.
func (s Settings) Version(ctx context.Context) (string, error) {
	value, err := s.static(ctx, "getVersion")
	if err != nil {
		return "", err
	}
	return asString(value)
}

// OS is the backend's description of the operating system it runs on.
func (s Settings) OS(ctx context.Context) (string, error) {
	value, err := s.static(ctx, "getOS")
	if err != nil {
		return "", err
	}
	return asString(value)
}

func (s Settings) flag(ctx context.Context, method string) (bool, error) {
	value, err := s.static(ctx, method)
	if err != nil {
		return false, err
	}
	return asBool(value)
}

func (s Settings) IsLinux(ctx context.Context) (bool, error)   { return s.flag(ctx, "isLinux") }
func (s Settings) IsMac(ctx context.Context) (bool, error)     { return s.flag(ctx, "isMac") }
func (s Settings) IsWindows(ctx context.Context) (bool, error) { return s.flag(ctx, "isWindows") }

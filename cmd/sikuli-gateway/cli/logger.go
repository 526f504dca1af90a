// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the logger for a command run. When stderr is
// a terminal it writes human-readable text; when stderr is piped or
// redirected it writes JSON lines for log collectors.
func NewCommandLogger(level slog.Level) *slog.Logger {
	return newLogger(os.Stderr, IsTerminal(os.Stderr), level)
}

// NewTextLogger writes human-readable records to w, for output that is
// shown to a person later rather than collected.
func NewTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return newLogger(w, true, level)
}

func newLogger(w io.Writer, text bool, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if text {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w any) bool {
	file, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(file.Fd()))
}

// LogLevel is embedded in params structs to add --verbose and --debug.
type LogLevel struct {
	Verbose bool `json:"-" flag:"verbose,v" desc:"log progress at info level"`
	Debug   bool `json:"-" flag:"debug" desc:"log everything, including each connection probe"`
}

// Level is warn unless --verbose or --debug was given.
func (l LogLevel) Level() slog.Level {
	switch {
	case l.Debug:
		return slog.LevelDebug
	case l.Verbose:
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPortInUse means something already listens on the port the
	// backend would bind.
	ErrPortInUse = errors.New("port already in use")

	// ErrBackendExited means the backend process ended before it
	// started listening.
	ErrBackendExited = errors.New("backend exited before listening")

	// ErrJarNotFound means no SikuliX jar was configured or found.
	ErrJarNotFound = errors.New("sikulix jar not found")

	// ErrProcessGone means a recorded PID no longer names the backend.
	ErrProcessGone = errors.New("process not running")
)

// ConfigError is an invalid Config. The CLI maps it to exit code 2.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "invalid gateway configuration: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// LaunchError means the backend could not be started at all: the jar
// or java is missing, the spawn failed, the port was taken, or the
// process died before listening. Not retryable without a change.
type LaunchError struct {
	Port int
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching gateway on port %d: %v", e.Port, e.Err)
}
func (e *LaunchError) Unwrap() error { return e.Err }

// StartTimeoutError means the backend was spawned but never accepted
// a connection before the startup deadline or cancellation. The
// process has been terminated. Callers may retry.
type StartTimeoutError struct {
	Port    int
	Timeout time.Duration
	Elapsed time.Duration

	// LastProbeErr is the most recent connection failure, if any
	// probe ran.
	LastProbeErr error

	// Err is the context error when the wait was cancelled.
	Err error
}

func (e *StartTimeoutError) Error() string {
	message := fmt.Sprintf("gateway on port %d not reachable after %v", e.Port, e.Elapsed.Round(time.Millisecond))
	if e.Err != nil {
		message += ": " + e.Err.Error()
	} else {
		message += fmt.Sprintf(" (timeout %v)", e.Timeout)
	}
	if e.LastProbeErr != nil {
		message += "; last probe: " + e.LastProbeErr.Error()
	}
	return message
}
func (e *StartTimeoutError) Unwrap() error { return e.Err }

// UnreachableError is a failed connection probe.
type UnreachableError struct {
	Address string
	Err     error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("gateway at %s unreachable: %v", e.Address, e.Err)
}
func (e *UnreachableError) Unwrap() error { return e.Err }

// UnavailableError is returned by EnsureReady when no gateway is
// listening and one could not be started.
type UnavailableError struct {
	Address string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("gateway at %s unavailable: %v", e.Address, e.Err)
}
func (e *UnavailableError) Unwrap() error { return e.Err }

// exitError describes how a backend process ended.
func exitError(code int) error {
	if code < 0 {
		return fmt.Errorf("%w (killed by signal)", ErrBackendExited)
	}
	return fmt.Errorf("%w (exit code %d)", ErrBackendExited, code)
}

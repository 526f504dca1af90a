// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"net"
	"strconv"
	"time"
)

// State is the lifecycle state of a managed gateway.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateReady
	StateStopping
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateStopping:
		return "stopping"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// MarshalText renders the state by name in JSON output.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Endpoint is where a ready gateway accepts connections.
type Endpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (e Endpoint) Address() string { return net.JoinHostPort(e.Host, strconv.Itoa(e.Port)) }

// Handle is a caller's copy of the managed process identity. Holding
// one grants no control over the process.
type Handle struct {
	PID       int       `json:"pid"`
	Endpoint  Endpoint  `json:"endpoint"`
	StartedAt time.Time `json:"started_at"`

	// Adopted is true when the process was started by another
	// invocation and picked up from its state record.
	Adopted bool `json:"adopted"`
}

// Status is a point-in-time view of the Manager. Zero PID means no
// process is held.
type Status struct {
	State     State         `json:"state"`
	Port      int           `json:"port"`
	PID       int           `json:"pid,omitempty"`
	StartedAt time.Time     `json:"started_at,omitzero"`
	Uptime    time.Duration `json:"uptime_ns,omitempty"`
	Adopted   bool          `json:"adopted,omitempty"`
	Jar       string        `json:"jar,omitempty"`
	Digest    string        `json:"digest,omitempty"`
	LastError string        `json:"last_error,omitempty"`
}

// ProbeResult is the outcome of TestConnection.
type ProbeResult struct {
	Address   string            `json:"address"`
	Reachable bool              `json:"reachable"`
	Latency   time.Duration     `json:"latency_ns"`
	Err       *UnreachableError `json:"-"`
}

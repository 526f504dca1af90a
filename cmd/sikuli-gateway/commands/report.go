// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/sikuli-go/sikuli/lib/gateway"
)

// probeReport is the JSON form of a connection test. The error is a
// string because gateway.ProbeResult keeps the typed error out of JSON.
type probeReport struct {
	Address   string        `json:"address"`
	Reachable bool          `json:"reachable"`
	Latency   time.Duration `json:"latency_ns"`
	Error     string        `json:"error,omitempty"`
}

func newProbeReport(result gateway.ProbeResult) probeReport {
	report := probeReport{Address: result.Address, Reachable: result.Reachable, Latency: result.Latency}
	if result.Err != nil {
		report.Error = result.Err.Error()
	}
	return report
}

func writeProbe(w io.Writer, s styles, result gateway.ProbeResult) {
	if result.Reachable {
		fmt.Fprintf(w, "%s %s %s\n", result.Address, s.good("reachable"),
			s.faint(fmt.Sprintf("(%s)", result.Latency.Round(time.Microsecond))))
		return
	}
	fmt.Fprintf(w, "%s %s\n", result.Address, s.bad("unreachable"))
	if result.Err != nil {
		fmt.Fprintf(w, "  %s\n", s.faint(result.Err.Err.Error()))
	}
}

// writeStatus prints the state on the first line and details below.
func writeStatus(w io.Writer, s styles, status gateway.Status) {
	fmt.Fprintf(w, "gateway %s on port %d", s.state(status.State), status.Port)
	if status.PID != 0 {
		fmt.Fprintf(w, " (pid %d)", status.PID)
	}
	fmt.Fprintln(w)

	if status.State == gateway.StateReady {
		fmt.Fprintf(w, "  %s %s\n", s.faint("uptime"), status.Uptime.Round(time.Second))
	}
	if status.Adopted {
		fmt.Fprintf(w, "  %s %s\n", s.faint("started"), status.StartedAt.Local().Format(time.DateTime))
	}
	if status.Jar != "" {
		fmt.Fprintf(w, "  %s %s %s\n", s.faint("jar"), status.Jar, s.faint(gateway.ShortDigest(status.Digest)))
	}
	if status.LastError != "" {
		fmt.Fprintf(w, "  %s %s\n", s.faint("error"), s.bad(status.LastError))
	}
}

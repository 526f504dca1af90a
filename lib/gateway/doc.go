// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway manages the external Java process that performs GUI
// automation on behalf of this module: the SikuliX jar running
// py4j.GatewayServer on a TCP port.
//
// A [Manager] owns at most one backend per port and moves it through
//
//	stopped -> starting -> ready -> stopping -> stopped
//
// with failed reachable from starting (launch error, timeout,
// cancellation) and from ready (the process died). Start is idempotent
// and concurrent callers share one spawn. Stop escalates from a
// graceful termination to a kill after the shutdown timeout. Status is
// a lock-free snapshot of local state; TestConnection is an
// independent reachability probe.
//
// Startup polling, shutdown waits and adopted-process liveness checks
// all run on an injected clock.Clock, and the process and network
// boundaries are the [Spawner] and [Prober] interfaces, so lifecycle
// logic is tested without real processes or wall-clock sleeps.
//
// When Config.StateDir is set, a ready backend is recorded on disk
// (CBOR, written atomically). A later Manager for the same port calls
// [Manager.Reattach] to adopt it, which is how separate CLI
// invocations of start, status and stop cooperate.
package gateway

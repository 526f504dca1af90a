// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the sikuli-gateway command tree: start,
// stop, status, test and version, plus an interactive menu when the
// binary runs on a terminal without arguments.
//
// Each invocation creates its own gateway.Manager and reattaches to
// the gateway recorded in the state directory, so a gateway started by
// one invocation can be inspected and stopped by the next.
package commands

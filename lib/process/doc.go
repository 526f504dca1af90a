// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helpers shared by binaries:
// reporting an error on stderr and turning it into an exit status.
package process

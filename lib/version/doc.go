// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build identity of the sikuli-gateway
// binary. Values are injected at link time.
package version

// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds shared test helpers.
//
// [RequireReceive], [RequireClosed] and [RequireBlocked] are the only
// places tests wait on the wall clock; everything else drives time
// through clock.FakeClock. [FreePort] and [Listen] hand out loopback
// ports for probe and process tests.
//
// Helpers fail the test with t.Fatalf instead of returning errors.
package testutil

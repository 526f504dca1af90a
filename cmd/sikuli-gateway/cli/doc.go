// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind sikuli-gateway:
// a tree of [Command] values with pflag-based flags bound from struct
// tags ([FlagsFromParams]), typo suggestions for unknown commands and
// flags, a structured logger that picks text or JSON output depending
// on whether stderr is a terminal, and errors that carry exit codes
// ([ExitError], [ToolError]).
package cli

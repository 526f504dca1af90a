// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
)

// ExitCode maps an error returned by a command to a process exit
// status. Errors carrying their own code (an ExitCode() int method
// anywhere in the wrap chain) use it; any other error is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return 1
}

// Report writes err to w in the single-line form the binaries use.
// Errors that only carry an exit code and no message print nothing.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	if message := err.Error(); message != "" {
		fmt.Fprintf(w, "error: %s\n", message)
	}
}

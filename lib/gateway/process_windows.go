// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package gateway

import (
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

// stillActive is the exit code GetExitCodeProcess reports for a
// running process.
const stillActive = 259

func configureProcessGroup(cmd *exec.Cmd) {}

// Windows has no SIGTERM; termination is always forced.
func terminateGroup(process *os.Process) error { return process.Kill() }
func killGroup(process *os.Process) error      { return process.Kill() }

func terminatePID(pid int) error { return killPID(pid) }

func killPID(pid int) error {
	handle, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		if !pidAlive(pid) {
			return nil
		}
		return err
	}
	defer windows.CloseHandle(handle)
	return windows.TerminateProcess(handle, 1)
}

func pidAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)
	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}
	return code == stillActive
}

func commandMatches(pid int, argv []string) bool { return true }

// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package gateway

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateGroup(process *os.Process) error {
	return signalGroup(process.Pid, unix.SIGTERM)
}

func killGroup(process *os.Process) error {
	return signalGroup(process.Pid, unix.SIGKILL)
}

// signalGroup signals the process group led by pid, falling back to
// the process alone when it has no group of its own (adopted processes
// started by older binaries).
func signalGroup(pid int, signal unix.Signal) error {
	if pgid, err := unix.Getpgid(pid); err == nil && pgid == pid {
		err = unix.Kill(-pgid, signal)
		if err == nil || !errors.Is(err, unix.ESRCH) {
			return err
		}
	}
	err := unix.Kill(pid, signal)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

func terminatePID(pid int) error { return signalGroup(pid, unix.SIGTERM) }
func killPID(pid int) error      { return signalGroup(pid, unix.SIGKILL) }

// pidAlive reports whether pid names a live process. EPERM means the
// process exists but belongs to someone else.
func pidAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// commandMatches reports whether pid is still running argv. Without a
// /proc filesystem the check is skipped and reports true.
func commandMatches(pid int, argv []string) bool {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/cmdline")
	if err != nil {
		return !errors.Is(err, os.ErrNotExist) || !procMounted()
	}
	running := bytes.Split(bytes.TrimRight(data, "\x00"), []byte{0})
	if len(running) != len(argv) {
		return false
	}
	// The executable may have been resolved differently; compare the
	// arguments only.
	for i := 1; i < len(argv); i++ {
		if string(running[i]) != argv[i] {
			return false
		}
	}
	return true
}

func procMounted() bool {
	_, err := os.Stat("/proc/self/cmdline")
	return err == nil
}

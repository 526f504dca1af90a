// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

// Process is a running backend as the Manager sees it.
type Process interface {
	// Pid returns the operating system process ID.
	Pid() int

	// Terminate asks the process to exit (SIGTERM to its process group
	// on Unix).
	Terminate() error

	// Kill ends the process without letting it clean up.
	Kill() error

	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}

	// ExitCode is the exit status after Done is closed: -1 when the
	// process was killed by a signal or the status is unknown.
	ExitCode() int
}

// Spawner starts backend processes.
type Spawner interface {
	Spawn(spec LaunchSpec) (Process, error)
}

// ExecSpawner starts the backend as a child process in its own process
// group, so signals reach the JVM and anything it forks.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(spec LaunchSpec) (Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	configureProcessGroup(cmd)

	var logFile *os.File
	if spec.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(spec.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		file, err := os.OpenFile(spec.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening backend log: %w", err)
		}
		logFile = file
		cmd.Stdout = file
		cmd.Stderr = file
	}
	// Without a log file, output goes to the null device. A pipe would
	// close when the launching CLI exits.

	if err := cmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("starting %s: %w", spec.Path, err)
	}

	process := &childProcess{cmd: cmd, done: make(chan struct{}), exitCode: -1}
	go func() {
		err := cmd.Wait()
		if logFile != nil {
			logFile.Close()
		}
		process.mu.Lock()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			process.exitCode = 0
		case errors.As(err, &exitErr):
			process.exitCode = exitErr.ExitCode()
		}
		process.mu.Unlock()
		close(process.done)
	}()
	return process, nil
}

// childProcess is a backend this process spawned. A reaper goroutine
// collects its exit status.
type childProcess struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu       sync.Mutex
	exitCode int
}

func (p *childProcess) Pid() int              { return p.cmd.Process.Pid }
func (p *childProcess) Done() <-chan struct{} { return p.done }

func (p *childProcess) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

func (p *childProcess) Terminate() error {
	if p.exited() {
		return nil
	}
	return terminateGroup(p.cmd.Process)
}

func (p *childProcess) Kill() error {
	if p.exited() {
		return nil
	}
	return killGroup(p.cmd.Process)
}

func (p *childProcess) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func lookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	if err != nil {
		return "", fmt.Errorf("resolving executable %q: %w", file, err)
	}
	return path, nil
}

// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"sync"
	"time"

	"github.com/sikuli-go/sikuli/lib/clock"
)

// Adopter attaches to a backend started by another invocation, given
// its recorded PID and command line. It returns ErrProcessGone when
// the PID is dead or now runs something else.
type Adopter func(pid int, argv []string) (Process, error)

// pidAdopter returns an Adopter that watches adopted processes by
// polling their PID every interval. It cannot collect an exit status
// because the process is not our child.
func pidAdopter(c clock.Clock, interval time.Duration) Adopter {
	return func(pid int, argv []string) (Process, error) {
		if !pidAlive(pid) || !commandMatches(pid, argv) {
			return nil, ErrProcessGone
		}
		process := &adoptedProcess{pid: pid, done: make(chan struct{})}
		go process.watch(c, interval)
		return process, nil
	}
}

type adoptedProcess struct {
	pid      int
	done     chan struct{}
	stopOnce sync.Once
}

func (p *adoptedProcess) Pid() int              { return p.pid }
func (p *adoptedProcess) Done() <-chan struct{} { return p.done }
func (p *adoptedProcess) ExitCode() int         { return -1 }
func (p *adoptedProcess) Terminate() error      { return terminatePID(p.pid) }

func (p *adoptedProcess) Kill() error {
	if err := killPID(p.pid); err != nil {
		return err
	}
	p.checkAlive()
	return nil
}

func (p *adoptedProcess) watch(c clock.Clock, interval time.Duration) {
	ticker := c.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.checkAlive()
		}
	}
}

func (p *adoptedProcess) checkAlive() {
	if !pidAlive(p.pid) {
		p.stopOnce.Do(func() { close(p.done) })
	}
}

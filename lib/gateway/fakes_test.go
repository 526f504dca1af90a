// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sikuli-go/sikuli/lib/clock"
	"github.com/sikuli-go/sikuli/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

var errConnectionRefused = errors.New("connection refused")

// fakeProber answers probes from a switch the test or a fake process
// flips.
type fakeProber struct {
	mu        sync.Mutex
	listening bool
	probes    int
}

func (p *fakeProber) Probe(ctx context.Context, address string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes++
	if p.listening {
		return nil
	}
	return errConnectionRefused
}

func (p *fakeProber) setListening(listening bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listening = listening
}

func (p *fakeProber) probeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probes
}

type fakeProcess struct {
	pid             int
	ignoreTerminate bool
	onExit          func()
	done            chan struct{}
	once            sync.Once

	mu         sync.Mutex
	exitCode   int
	terminates int
	kills      int
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, done: make(chan struct{})}
}

func (p *fakeProcess) Pid() int              { return p.pid }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }

func (p *fakeProcess) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminates++
	ignore := p.ignoreTerminate
	p.mu.Unlock()
	if !ignore {
		p.exit(0)
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.kills++
	p.mu.Unlock()
	p.exit(-1)
	return nil
}

func (p *fakeProcess) exit(code int) {
	p.once.Do(func() {
		p.mu.Lock()
		p.exitCode = code
		p.mu.Unlock()
		if p.onExit != nil {
			p.onExit()
		}
		close(p.done)
	})
}

func (p *fakeProcess) signals() (terminates, kills int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminates, p.kills
}

func (p *fakeProcess) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// fakeSpawner hands out fakeProcesses. With listen set, a spawned
// process starts accepting connections immediately and stops when it
// exits.
type fakeSpawner struct {
	prober          *fakeProber
	listen          bool
	exitImmediately bool
	ignoreTerminate bool
	err             error

	mu        sync.Mutex
	processes []*fakeProcess
	specs     []LaunchSpec
}

func (s *fakeSpawner) Spawn(spec LaunchSpec) (Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	process := newFakeProcess(1000 + len(s.processes))
	process.ignoreTerminate = s.ignoreTerminate
	process.onExit = func() { s.prober.setListening(false) }
	s.processes = append(s.processes, process)
	s.specs = append(s.specs, spec)
	if s.listen {
		s.prober.setListening(true)
	}
	if s.exitImmediately {
		process.exit(1)
	}
	return process, nil
}

func (s *fakeSpawner) spawnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processes)
}

func (s *fakeSpawner) last() *fakeProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processes[len(s.processes)-1]
}

type harness struct {
	manager *Manager
	clock   *clock.FakeClock
	prober  *fakeProber
	spawner *fakeSpawner
	config  Config
}

func testConfig(t *testing.T) Config {
	t.Helper()
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %v", err)
	}
	config := DefaultConfig()
	config.Command = []string{executable, "--port", PortPlaceholder}
	config.StateDir = t.TempDir()
	config.StartupTimeout = 10 * time.Second
	config.ShutdownTimeout = 3 * time.Second
	config.PollInterval = 200 * time.Millisecond
	return config
}

func newHarness(t *testing.T, configure ...func(*Config, *fakeSpawner)) *harness {
	t.Helper()
	prober := &fakeProber{}
	spawner := &fakeSpawner{prober: prober, listen: true}
	config := testConfig(t)
	for _, apply := range configure {
		apply(&config, spawner)
	}
	fake := clock.Fake(epoch)
	manager, err := NewManager(config, Options{
		Clock:   fake,
		Spawner: spawner,
		Prober:  prober,
		Adopter: func(int, []string) (Process, error) { return nil, ErrProcessGone },
		Logger:  slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &harness{manager: manager, clock: fake, prober: prober, spawner: spawner, config: config}
}

type startResult struct {
	handle Handle
	err    error
}

// startAsync runs Start in a goroutine and returns its result channel.
func (h *harness) startAsync(ctx context.Context) <-chan startResult {
	results := make(chan startResult, 1)
	go func() {
		handle, err := h.manager.Start(ctx)
		results <- startResult{handle, err}
	}()
	return results
}

// startReady drives one Start to the ready state: waits for the
// startup deadline and poll ticker to register, then advances one poll
// interval.
func (h *harness) startReady(t *testing.T) Handle {
	t.Helper()
	results := h.startAsync(context.Background())
	h.clock.WaitForTimers(2)
	h.clock.Advance(h.config.PollInterval)
	result := testutil.RequireReceive(t, results, 5*time.Second, "start result")
	if result.err != nil {
		t.Fatalf("Start: %v", result.err)
	}
	return result.handle
}

// waitForState polls Status until it reports want.
func waitForState(t *testing.T, m *Manager, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if m.Status().State == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", m.Status().State, want)
}

// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sikuli-go/sikuli/lib/clock"
)

// Options are the collaborators a Manager uses. Zero values select the
// production implementations.
type Options struct {
	Clock   clock.Clock
	Spawner Spawner
	Prober  Prober
	Adopter Adopter
	Logger  *slog.Logger
}

// Manager owns the lifecycle of at most one backend process on one
// port. Start and Stop serialize with each other; Status and
// TestConnection never wait on them.
type Manager struct {
	config  Config
	clock   clock.Clock
	spawner Spawner
	prober  Prober
	adopter Adopter
	logger  *slog.Logger

	// busy is a one-slot semaphore held for the duration of a Start or
	// Stop transition. A channel rather than a mutex so waiting honors
	// context cancellation.
	busy chan struct{}

	mu      sync.Mutex
	state   State
	current *gatewayProcess
	attempt *startAttempt
	lastErr error

	snapshot atomic.Pointer[Status]
}

// gatewayProcess is the Manager's private record of the backend it
// holds. Callers only ever see Handle copies.
type gatewayProcess struct {
	process   Process
	endpoint  Endpoint
	startedAt time.Time
	argv      []string
	jar       string
	digest    string
	adopted   bool
}

func (g *gatewayProcess) handle() Handle {
	return Handle{
		PID:       g.process.Pid(),
		Endpoint:  g.endpoint,
		StartedAt: g.startedAt,
		Adopted:   g.adopted,
	}
}

// startAttempt lets concurrent Start callers share one spawn.
type startAttempt struct {
	ctx     context.Context // the initiating caller's
	done    chan struct{}
	waiters int // callers that joined, guarded by Manager.mu
	handle  Handle
	err     error
}

// abandoned reports whether the attempt failed because its initiator
// gave up, which says nothing about the callers that joined it.
func (a *startAttempt) abandoned() bool {
	return a.err != nil && a.ctx.Err() != nil
}

// NewManager validates config and returns a Manager in the stopped
// state. Call Reattach to pick up a backend left running by an
// earlier invocation.
func NewManager(config Config, options Options) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		config:  config,
		clock:   options.Clock,
		spawner: options.Spawner,
		prober:  options.Prober,
		adopter: options.Adopter,
		logger:  options.Logger,
		busy:    make(chan struct{}, 1),
	}
	if m.clock == nil {
		m.clock = clock.Real()
	}
	if m.spawner == nil {
		m.spawner = ExecSpawner{}
	}
	if m.prober == nil {
		m.prober = TCPProber{}
	}
	if m.adopter == nil {
		m.adopter = pidAdopter(m.clock, config.PollInterval)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	m.logger = m.logger.With("port", config.Port)
	m.mu.Lock()
	m.publishLocked()
	m.mu.Unlock()
	return m, nil
}

// Config returns the configuration the Manager was built with.
func (m *Manager) Config() Config { return m.config }

func (m *Manager) acquire(ctx context.Context) error {
	select {
	case m.busy <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) release() { <-m.busy }

// Reattach loads the state record for this port and, if the recorded
// backend is still alive, takes ownership of it: ready when it accepts
// connections, failed when it does not (so Stop can still end it). A
// record naming a dead process is removed.
func (m *Manager) Reattach(ctx context.Context) error {
	path := m.config.statePath()
	if path == "" {
		return nil
	}
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	m.mu.Lock()
	held := m.current != nil
	m.mu.Unlock()
	if held {
		return nil
	}

	rec, err := readRecord(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		m.logger.Warn("discarding unreadable gateway record", "path", path, "error", err)
		return removeRecord(path)
	}

	process, err := m.adopter(rec.PID, rec.Argv)
	if err != nil {
		m.logger.Info("recorded gateway is gone, removing record", "pid", rec.PID, "error", err)
		return removeRecord(path)
	}

	g := &gatewayProcess{
		process:   process,
		endpoint:  m.config.Endpoint(),
		startedAt: rec.StartedAt,
		argv:      rec.Argv,
		jar:       rec.Jar,
		digest:    rec.Digest,
		adopted:   true,
	}

	probeCtx, cancel := context.WithTimeout(ctx, ConnectionProbeTimeout)
	probeErr := m.prober.Probe(probeCtx, m.config.Address())
	cancel()

	m.mu.Lock()
	m.current = g
	if probeErr == nil {
		m.setStateLocked(StateReady, nil)
	} else {
		m.setStateLocked(StateFailed, &UnreachableError{Address: m.config.Address(), Err: probeErr})
	}
	m.mu.Unlock()

	if probeErr == nil {
		m.logger.Info("reattached to running gateway", "pid", rec.PID)
		go m.monitor(g)
	} else {
		m.logger.Warn("recorded gateway is alive but not accepting connections", "pid", rec.PID, "error", probeErr)
	}
	return nil
}

// Start launches the backend and blocks until it accepts connections.
// A ready gateway is returned as is without spawning. Callers arriving
// while a start is in progress wait for that attempt and share its
// result, unless it was abandoned by the caller that began it; then
// they start again. A leftover process from a failed state is stopped
// first.
func (m *Manager) Start(ctx context.Context) (Handle, error) {
	for {
		m.mu.Lock()
		if m.state == StateReady && m.current != nil {
			handle := m.current.handle()
			m.mu.Unlock()
			m.logger.Info("gateway already running", "pid", handle.PID)
			return handle, nil
		}
		if attempt := m.attempt; attempt != nil {
			attempt.waiters++
			m.mu.Unlock()
			m.logger.Debug("joining in-flight gateway start")
			select {
			case <-attempt.done:
			case <-ctx.Done():
				return Handle{}, ctx.Err()
			}
			if attempt.abandoned() && ctx.Err() == nil {
				m.logger.Debug("in-flight gateway start was cancelled by its caller, starting again")
				continue
			}
			return attempt.handle, attempt.err
		}
		attempt := &startAttempt{ctx: ctx, done: make(chan struct{})}
		m.attempt = attempt
		m.mu.Unlock()

		attempt.handle, attempt.err = m.startExclusive(ctx)

		m.mu.Lock()
		m.attempt = nil
		waiters := attempt.waiters
		m.mu.Unlock()
		close(attempt.done)
		if waiters > 0 {
			m.logger.Debug("gateway start shared", "waiters", waiters, "error", attempt.err)
		}
		return attempt.handle, attempt.err
	}
}

func (m *Manager) startExclusive(ctx context.Context) (Handle, error) {
	if err := m.acquire(ctx); err != nil {
		return Handle{}, err
	}
	defer m.release()

	// A Stop or Start may have completed while we waited.
	m.mu.Lock()
	leftover := m.current
	if m.state == StateReady && leftover != nil {
		handle := leftover.handle()
		m.mu.Unlock()
		return handle, nil
	}
	m.mu.Unlock()

	if leftover != nil {
		m.logger.Info("stopping leftover gateway process before restart", "pid", leftover.process.Pid())
		m.shutdown(ctx, leftover)
		m.forget(leftover)
	}

	m.mu.Lock()
	m.setStateLocked(StateStarting, nil)
	m.mu.Unlock()

	handle, err := m.launch(ctx)
	if err != nil {
		m.mu.Lock()
		m.setStateLocked(StateFailed, err)
		m.mu.Unlock()
		m.logger.Error("gateway failed to start", "error", err)
		return Handle{}, err
	}
	return handle, nil
}

// launch runs one start attempt: refuse an occupied port, spawn, poll
// until listening. On any failure after spawning the process is killed
// before returning.
func (m *Manager) launch(ctx context.Context) (Handle, error) {
	address := m.config.Address()

	probeCtx, cancel := context.WithTimeout(ctx, ConnectionProbeTimeout)
	err := m.prober.Probe(probeCtx, address)
	cancel()
	if err == nil {
		return Handle{}, &LaunchError{Port: m.config.Port, Err: fmt.Errorf("%w: %s already accepts connections", ErrPortInUse, address)}
	}

	spec, err := m.config.launchSpec()
	if err != nil {
		return Handle{}, &LaunchError{Port: m.config.Port, Err: err}
	}

	var digest string
	if spec.Jar != "" {
		digest, err = Fingerprint(spec.Jar)
		if err != nil {
			m.logger.Warn("could not fingerprint backend jar", "jar", spec.Jar, "error", err)
		}
	}

	process, err := m.spawner.Spawn(spec)
	if err != nil {
		return Handle{}, &LaunchError{Port: m.config.Port, Err: err}
	}
	g := &gatewayProcess{
		process:   process,
		endpoint:  m.config.Endpoint(),
		startedAt: m.clock.Now(),
		argv:      spec.Argv(),
		jar:       spec.Jar,
		digest:    digest,
	}
	m.mu.Lock()
	m.current = g
	m.publishLocked()
	m.mu.Unlock()
	m.logger.Info("gateway process spawned", "pid", process.Pid(), "command", spec.Path)

	if err := m.awaitListening(ctx, g); err != nil {
		m.kill(g)
		m.forget(g)
		return Handle{}, err
	}

	m.mu.Lock()
	m.setStateLocked(StateReady, nil)
	handle := g.handle()
	m.mu.Unlock()

	m.saveRecord(g)
	go m.monitor(g)
	m.logger.Info("gateway ready", "pid", handle.PID, "address", address,
		"elapsed", clock.Since(m.clock, g.startedAt))
	return handle, nil
}

// awaitListening polls the backend's port until it accepts a
// connection, the process exits, the startup timeout passes, or ctx
// is cancelled. Each probe's dial is clipped to the remaining budget
// so the wait overshoots the timeout by at most one poll interval.
func (m *Manager) awaitListening(ctx context.Context, g *gatewayProcess) error {
	address := m.config.Address()
	timeout := m.config.StartupTimeout

	deadline := m.clock.NewTimer(timeout)
	defer deadline.Stop()
	ticker := m.clock.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	timedOut := func(lastProbeErr, cause error) error {
		return &StartTimeoutError{
			Port:         m.config.Port,
			Timeout:      timeout,
			Elapsed:      clock.Since(m.clock, g.startedAt),
			LastProbeErr: lastProbeErr,
			Err:          cause,
		}
	}

	var lastProbeErr error
	for {
		select {
		case <-ctx.Done():
			return timedOut(lastProbeErr, ctx.Err())

		case <-g.process.Done():
			return &LaunchError{Port: m.config.Port, Err: exitError(g.process.ExitCode())}

		case <-deadline.C:
			return timedOut(lastProbeErr, nil)

		case <-ticker.C:
			remaining := timeout - clock.Since(m.clock, g.startedAt)
			if remaining <= 0 {
				return timedOut(lastProbeErr, nil)
			}
			probeCtx, cancel := context.WithTimeout(ctx, min(ConnectionProbeTimeout, remaining))
			lastProbeErr = m.prober.Probe(probeCtx, address)
			cancel()
			if lastProbeErr == nil {
				return nil
			}
			m.logger.Debug("gateway not listening yet", "error", lastProbeErr)
		}
	}
}

// monitor marks the gateway failed if its process exits while the
// Manager still considers it ready.
func (m *Manager) monitor(g *gatewayProcess) {
	<-g.process.Done()

	m.mu.Lock()
	if m.current != g || m.state != StateReady {
		m.mu.Unlock()
		return
	}
	err := exitError(g.process.ExitCode())
	m.current = nil
	// The record goes before the state changes so that observers of
	// the failed state never see it.
	m.dropRecord(g.process.Pid())
	m.setStateLocked(StateFailed, fmt.Errorf("gateway exited unexpectedly: %w", err))
	m.mu.Unlock()

	m.logger.Error("gateway process exited while ready", "pid", g.process.Pid(), "error", err)
}

// Stop ends the backend: graceful termination, then a forced kill
// after the shutdown timeout. Stopping a stopped gateway does nothing.
// Termination problems are logged, not returned; the Manager always
// ends in the stopped state. The only error is ctx ending while
// waiting for a concurrent Start to finish.
func (m *Manager) Stop(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	m.mu.Lock()
	g := m.current
	if g == nil {
		if m.state != StateStopped {
			m.setStateLocked(StateStopped, nil)
		}
		m.mu.Unlock()
		m.logger.Debug("gateway already stopped")
		return nil
	}
	m.setStateLocked(StateStopping, nil)
	m.mu.Unlock()

	m.logger.Info("stopping gateway", "pid", g.process.Pid())
	m.shutdown(ctx, g)

	m.mu.Lock()
	m.current = nil
	m.setStateLocked(StateStopped, nil)
	m.mu.Unlock()
	m.dropRecord(g.process.Pid())
	m.logger.Info("gateway stopped", "pid", g.process.Pid())
	return nil
}

// shutdown terminates g and waits for it to exit, escalating to a kill
// after the shutdown timeout or when ctx ends.
func (m *Manager) shutdown(ctx context.Context, g *gatewayProcess) {
	pid := g.process.Pid()
	select {
	case <-g.process.Done():
		m.logger.Warn("gateway process already exited", "pid", pid)
		return
	default:
	}

	if err := g.process.Terminate(); err != nil {
		m.logger.Warn("terminate signal failed", "pid", pid, "error", err)
	}

	wait := m.clock.NewTimer(m.config.ShutdownTimeout)
	defer wait.Stop()
	select {
	case <-g.process.Done():
		return
	case <-wait.C:
		m.logger.Warn("gateway ignored termination, killing", "pid", pid, "timeout", m.config.ShutdownTimeout)
	case <-ctx.Done():
		m.logger.Warn("stop cancelled, killing gateway", "pid", pid)
	}
	m.kill(g)
}

// kill force-kills g and waits a bounded time for it to be reaped.
func (m *Manager) kill(g *gatewayProcess) {
	pid := g.process.Pid()
	if err := g.process.Kill(); err != nil {
		m.logger.Warn("kill failed", "pid", pid, "error", err)
	}
	grace := m.clock.NewTimer(killGrace)
	defer grace.Stop()
	select {
	case <-g.process.Done():
	case <-grace.C:
		m.logger.Error("gateway process still present after kill", "pid", pid)
	}
}

// forget drops g as the current process if it still is.
func (m *Manager) forget(g *gatewayProcess) {
	m.mu.Lock()
	if m.current == g {
		m.current = nil
		m.publishLocked()
	}
	m.mu.Unlock()
}

// Status returns a snapshot of the Manager without blocking.
func (m *Manager) Status() Status {
	status := *m.snapshot.Load()
	if status.State == StateReady && !status.StartedAt.IsZero() {
		status.Uptime = clock.Since(m.clock, status.StartedAt)
	}
	return status
}

// TestConnection probes the configured address once with a short
// timeout. It never changes the Manager's state.
func (m *Manager) TestConnection(ctx context.Context) ProbeResult {
	address := m.config.Address()
	began := m.clock.Now()

	probeCtx, cancel := context.WithTimeout(ctx, ConnectionProbeTimeout)
	err := m.prober.Probe(probeCtx, address)
	cancel()

	result := ProbeResult{Address: address, Latency: clock.Since(m.clock, began)}
	if err != nil {
		result.Err = &UnreachableError{Address: address, Err: err}
	} else {
		result.Reachable = true
	}
	m.logger.Debug("connection probe", "address", address, "reachable", result.Reachable)
	return result
}

// EnsureReady returns an endpoint with a listening gateway, starting
// one if needed. A gateway already listening on the port, managed by
// this Manager or not, is used as is.
func (m *Manager) EnsureReady(ctx context.Context) (Endpoint, error) {
	endpoint := m.config.Endpoint()
	if m.Status().State == StateReady {
		return endpoint, nil
	}
	if m.TestConnection(ctx).Reachable {
		m.logger.Info("using gateway already listening", "address", endpoint.Address())
		return endpoint, nil
	}
	if _, err := m.Start(ctx); err != nil {
		// Lost a race with another launcher; its gateway will do.
		if errors.Is(err, ErrPortInUse) {
			return endpoint, nil
		}
		return Endpoint{}, &UnavailableError{Address: endpoint.Address(), Err: err}
	}
	return endpoint, nil
}

func (m *Manager) saveRecord(g *gatewayProcess) {
	path := m.config.statePath()
	if path == "" {
		return
	}
	rec := record{
		PID:       g.process.Pid(),
		Port:      m.config.Port,
		StartedAt: g.startedAt,
		Argv:      g.argv,
		Jar:       g.jar,
		Digest:    g.digest,
	}
	if err := writeRecord(path, rec); err != nil {
		m.logger.Warn("could not write gateway record", "path", path, "error", err)
	}
}

// dropRecord removes the state record if it still names pid. Another
// invocation may have started a new gateway on the port since.
func (m *Manager) dropRecord(pid int) {
	path := m.config.statePath()
	if path == "" {
		return
	}
	rec, err := readRecord(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err == nil && rec.PID != pid {
		m.logger.Debug("state record belongs to another gateway, keeping it", "pid", rec.PID)
		return
	}
	if err := removeRecord(path); err != nil {
		m.logger.Warn("could not remove gateway record", "path", path, "error", err)
	}
}

// setStateLocked records a transition and publishes a new snapshot.
// Callers hold m.mu.
func (m *Manager) setStateLocked(state State, err error) {
	if m.state != state {
		m.logger.Debug("gateway state", "from", m.state.String(), "to", state.String())
	}
	m.state = state
	m.lastErr = err
	m.publishLocked()
}

func (m *Manager) publishLocked() {
	status := &Status{State: m.state, Port: m.config.Port}
	if m.lastErr != nil {
		status.LastError = m.lastErr.Error()
	}
	if g := m.current; g != nil {
		status.PID = g.process.Pid()
		status.StartedAt = g.startedAt
		status.Adopted = g.adopted
		status.Jar = g.jar
		status.Digest = g.digest
	}
	m.snapshot.Store(status)
}

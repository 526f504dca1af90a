// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
	"github.com/sikuli-go/sikuli/lib/gateway"
)

// menuKeyMap is the key binding set for the menu.
type menuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

var defaultMenuKeys = menuKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "run"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// menuAction is one entry of the menu. Run returns the text shown
// under the menu.
type menuAction struct {
	Label string
	Run   func(context.Context) string
}

// actionDone carries the output of a finished action.
type actionDone struct {
	output string
}

// inflight tracks the action goroutine so the menu can wait for it
// before the process exits. Once closed, actions that have not begun
// never run.
type inflight struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (f *inflight) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.wg.Add(1)
	return true
}

func (f *inflight) end() { f.wg.Done() }

func (f *inflight) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.wg.Wait()
}

type menuModel struct {
	ctx      context.Context
	cancel   context.CancelFunc
	inflight *inflight
	actions  []menuAction
	keys     menuKeyMap
	styles   styles

	cursor  int
	running string
	output  string
	quit    bool
}

func newMenuModel(ctx context.Context, actions []menuAction, s styles) menuModel {
	ctx, cancel := context.WithCancel(ctx)
	return menuModel{
		ctx:      ctx,
		cancel:   cancel,
		inflight: &inflight{},
		actions:  actions,
		keys:     defaultMenuKeys,
		styles:   s,
	}
}

// shutdown cancels a running action and waits for it to return. A
// cancelled start kills the backend it spawned.
func (m menuModel) shutdown() {
	m.cancel()
	m.inflight.close()
}

func (m menuModel) Init() tea.Cmd { return nil }

func (m menuModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case actionDone:
		m.running = ""
		m.output = message.output
		return m, nil

	case tea.KeyMsg:
		if key.Matches(message, m.keys.Quit) {
			m.quit = true
			m.cancel()
			return m, tea.Quit
		}
		// One action at a time; other keys wait for it to finish.
		if m.running != "" {
			return m, nil
		}
		switch {
		case key.Matches(message, m.keys.Up):
			m.cursor = (m.cursor + len(m.actions) - 1) % len(m.actions)
		case key.Matches(message, m.keys.Down):
			m.cursor = (m.cursor + 1) % len(m.actions)
		case key.Matches(message, m.keys.Select):
			return m.run(m.cursor)
		default:
			// Digits pick an entry directly, as in a numbered prompt.
			if text := message.String(); len(text) == 1 && text[0] >= '1' && text[0] <= '9' {
				if index := int(text[0] - '1'); index < len(m.actions) {
					m.cursor = index
					return m.run(index)
				}
			}
		}
	}
	return m, nil
}

func (m menuModel) run(index int) (tea.Model, tea.Cmd) {
	action := m.actions[index]
	m.running = action.Label
	ctx, tracker := m.ctx, m.inflight
	return m, func() tea.Msg {
		if !tracker.begin() {
			return nil
		}
		defer tracker.end()
		return actionDone{output: action.Run(ctx)}
	}
}

func (m menuModel) View() string {
	if m.quit {
		return ""
	}
	var view strings.Builder
	view.WriteString(m.styles.title("SikuliX gateway"))
	view.WriteString("\n\n")
	for i, action := range m.actions {
		line := fmt.Sprintf("%d. %s", i+1, action.Label)
		if i == m.cursor {
			view.WriteString("> " + m.styles.selected(line))
		} else {
			view.WriteString("  " + line)
		}
		view.WriteString("\n")
	}
	view.WriteString("\n")
	switch {
	case m.running != "":
		view.WriteString(m.styles.faint(m.running + "..."))
		view.WriteString("\n")
	case m.output != "":
		view.WriteString(m.output)
		if !strings.HasSuffix(m.output, "\n") {
			view.WriteString("\n")
		}
	}
	view.WriteString("\n")
	var help []string
	for _, binding := range []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Quit} {
		help = append(help, binding.Help().Key+" "+binding.Help().Desc)
	}
	view.WriteString(m.styles.faint(strings.Join(help, " · ")))
	view.WriteString("\n")
	return view.String()
}

// gatewayActions are the menu entries for one manager.
func gatewayActions(manager *gateway.Manager, s styles) []menuAction {
	return []menuAction{
		{Label: "Start gateway", Run: func(ctx context.Context) string {
			handle, err := manager.Start(ctx)
			if err != nil {
				return s.bad(err.Error())
			}
			return fmt.Sprintf("gateway %s on %s (pid %d)", s.state(gateway.StateReady), handle.Endpoint.Address(), handle.PID)
		}},
		{Label: "Stop gateway", Run: func(ctx context.Context) string {
			if err := manager.Stop(ctx); err != nil {
				return s.bad(err.Error())
			}
			return fmt.Sprintf("gateway %s", s.state(gateway.StateStopped))
		}},
		{Label: "Show status", Run: func(context.Context) string {
			var output bytes.Buffer
			writeStatus(&output, s, manager.Status())
			return output.String()
		}},
		{Label: "Test connection", Run: func(ctx context.Context) string {
			var output bytes.Buffer
			writeProbe(&output, s, manager.TestConnection(ctx))
			return output.String()
		}},
	}
}

func runMenu(ctx context.Context, env Env, params *targetParams) error {
	// The program owns the terminal; records are held and written out
	// once it exits.
	var held heldLogs
	logger := cli.NewTextLogger(&held, params.Level())
	defer held.flush(env.Stderr)

	manager, err := params.openManager(ctx, nil, logger)
	if err != nil {
		return err
	}
	s := env.styles()
	model := newMenuModel(ctx, gatewayActions(manager, s), s)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(env.Stdout))
	_, err = program.Run()
	model.shutdown()
	if err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}

// heldLogs buffers log output from any goroutine.
type heldLogs struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (h *heldLogs) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buffer.Write(p)
}

func (h *heldLogs) flush(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffer.WriteTo(w)
}

// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
	"github.com/sikuli-go/sikuli/lib/testutil"
)

func testMenu(labels ...string) menuModel {
	var actions []menuAction
	for _, label := range labels {
		actions = append(actions, menuAction{
			Label: label,
			Run:   func(context.Context) string { return label + " done" },
		})
	}
	return newMenuModel(context.Background(), actions, newStyles(io.Discard, false))
}

func press(t *testing.T, m menuModel, message tea.KeyMsg) (menuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(message)
	model, ok := next.(menuModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func TestMenuCursorWraps(t *testing.T) {
	m := testMenu("one", "two", "three")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 2 {
		t.Fatalf("cursor after up from top = %d, want 2", m.cursor)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 0 {
		t.Fatalf("cursor after down from bottom = %d, want 0", m.cursor)
	}
	m, _ = press(t, m, runes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor after j = %d, want 1", m.cursor)
	}
}

func TestMenuSelectRunsAction(t *testing.T) {
	m := testMenu("one", "two")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("select returned no command")
	}
	if m.running != "two" {
		t.Fatalf("running = %q, want two", m.running)
	}
	if view := m.View(); !strings.Contains(view, "two...") {
		t.Errorf("view while running lacks progress line:\n%s", view)
	}

	done, ok := cmd().(actionDone)
	if !ok || done.output != "two done" {
		t.Fatalf("command message = %#v", done)
	}
	next, _ := m.Update(done)
	m = next.(menuModel)
	if m.running != "" || m.output != "two done" {
		t.Fatalf("after done: running %q output %q", m.running, m.output)
	}
	if view := m.View(); !strings.Contains(view, "two done") {
		t.Errorf("view lacks action output:\n%s", view)
	}
}

func TestMenuDigitSelects(t *testing.T) {
	m := testMenu("one", "two", "three")

	m, cmd := press(t, m, runes("3"))
	if cmd == nil || m.cursor != 2 || m.running != "three" {
		t.Fatalf("digit 3: cursor %d running %q cmd nil %v", m.cursor, m.running, cmd == nil)
	}

	idle := testMenu("one")
	idle, cmd = press(t, idle, runes("5"))
	if cmd != nil || idle.running != "" {
		t.Errorf("out-of-range digit started %q", idle.running)
	}
}

func TestMenuIgnoresKeysWhileRunning(t *testing.T) {
	m := testMenu("one", "two")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := press(t, m, runes("2"))
	if cmd != nil || m.running != "one" || m.cursor != 0 {
		t.Fatalf("second action accepted while first runs: running %q cursor %d", m.running, m.cursor)
	}
}

func TestMenuQuit(t *testing.T) {
	for _, message := range []tea.KeyMsg{
		runes("q"),
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := testMenu("one")
		m, cmd := press(t, m, message)
		if !m.quit || cmd == nil {
			t.Fatalf("%q did not quit", message.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q command is not quit", message.String())
		}
		if m.View() != "" {
			t.Errorf("view after quit = %q", m.View())
		}
	}
}

func TestMenuQuitCancelsRunningAction(t *testing.T) {
	started := make(chan struct{})
	returned := make(chan struct{})
	m := newMenuModel(context.Background(), []menuAction{{
		Label: "Start gateway",
		Run: func(ctx context.Context) string {
			close(started)
			<-ctx.Done()
			close(returned)
			return "cancelled"
		},
	}}, newStyles(io.Discard, false))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	go cmd()
	testutil.RequireClosed(t, started, 5*time.Second, "action start")

	m, quit := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if quit == nil || !m.quit {
		t.Fatal("ctrl+c did not quit while an action ran")
	}
	m.shutdown()
	select {
	case <-returned:
	default:
		t.Fatal("shutdown returned before the running action")
	}
}

func TestMenuShutdownSkipsPendingAction(t *testing.T) {
	ran := false
	m := newMenuModel(context.Background(), []menuAction{{
		Label: "Start gateway",
		Run:   func(context.Context) string { ran = true; return "" },
	}}, newStyles(io.Discard, false))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, runes("q"))
	m.shutdown()

	if message := cmd(); message != nil || ran {
		t.Errorf("action ran after shutdown: message %#v, ran %v", message, ran)
	}
}

func TestHeldLogsFlushAfterExit(t *testing.T) {
	var held heldLogs
	logger := cli.NewTextLogger(&held, slog.LevelWarn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Warn("could not check for a running gateway", "port", 25333)
	}()
	logger.Info("below the level")
	<-done

	var stderr bytes.Buffer
	held.flush(&stderr)
	if got := stderr.String(); !strings.Contains(got, "port=25333") || strings.Contains(got, "below the level") {
		t.Errorf("flushed logs = %q", got)
	}
}

// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sikuli-go/sikuli/lib/gateway"
)

// theme holds the ANSI 256-color palette shared by the status line and
// the menu.
type theme struct {
	Ready      lipgloss.Color
	Transition lipgloss.Color
	Failed     lipgloss.Color
	Faint      lipgloss.Color
	Title      lipgloss.Color
	Selected   lipgloss.Color
}

var defaultTheme = theme{
	Ready:      lipgloss.Color("42"),
	Transition: lipgloss.Color("214"),
	Failed:     lipgloss.Color("196"),
	Faint:      lipgloss.Color("244"),
	Title:      lipgloss.Color("39"),
	Selected:   lipgloss.Color("255"),
}

// styles renders text in color, or unchanged when color is off.
type styles struct {
	renderer *lipgloss.Renderer
	theme    theme
}

// newStyles returns styles writing to w. Color decisions are made by
// the caller, so the renderer's profile is fixed rather than detected
// from w, which in tests is a buffer.
func newStyles(w io.Writer, color bool) styles {
	s := styles{theme: defaultTheme}
	if color {
		s.renderer = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
		s.renderer.SetColorProfile(termenv.ANSI256)
	}
	return s
}

func (s styles) render(foreground lipgloss.Color, bold bool, text string) string {
	if s.renderer == nil {
		return text
	}
	return s.renderer.NewStyle().Foreground(foreground).Bold(bold).Render(text)
}

func (s styles) state(state gateway.State) string {
	switch state {
	case gateway.StateReady:
		return s.render(s.theme.Ready, true, state.String())
	case gateway.StateStarting, gateway.StateStopping:
		return s.render(s.theme.Transition, true, state.String())
	case gateway.StateFailed:
		return s.render(s.theme.Failed, true, state.String())
	}
	return s.render(s.theme.Faint, false, state.String())
}

func (s styles) faint(text string) string { return s.render(s.theme.Faint, false, text) }

func (s styles) title(text string) string { return s.render(s.theme.Title, true, text) }

func (s styles) selected(text string) string { return s.render(s.theme.Selected, true, text) }

func (s styles) good(text string) string { return s.render(s.theme.Ready, false, text) }

func (s styles) bad(text string) string { return s.render(s.theme.Failed, false, text) }

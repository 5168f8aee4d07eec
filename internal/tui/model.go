// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is an interactive terminal front end for the selection state
// machine: paste a URL, pick a mode and quality, and get the download link.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/mediagrab/internal/selection"
)

// Model is the Bubbletea model for the browser.
type Model struct {
	ctx     context.Context
	machine *selection.Machine
	ex      selection.Extractor

	input   textinput.Model
	spinner spinner.Model
	width   int

	// downloaded is the last link handed out by the download key.
	downloaded   string
	errorMessage string
	quitting     bool
}

// NewModel returns a Model driving m with extractions from ex.
func NewModel(ctx context.Context, m *selection.Machine, ex selection.Extractor) Model {
	input := textinput.New()
	input.Placeholder = "https://www.youtube.com/watch?v=..."
	input.Prompt = "URL: "
	input.CharLimit = 2048
	input.Width = 72
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		ctx:     ctx,
		machine: m,
		ex:      ex,
		input:   input,
		spinner: s,
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Downloaded returns the last download link the user asked for.
func (m Model) Downloaded() string { return m.downloaded }

// Run starts the browser and blocks until the user quits. It returns the
// last download link the user asked for, if any.
func Run(ctx context.Context, ex selection.Extractor, opts ...selection.Option) (string, error) {
	var p *tea.Program
	opts = append(opts, selection.WithNotify(func() {
		if p != nil {
			p.Send(foundExpiredMsg{})
		}
	}))

	model := NewModel(ctx, selection.New(opts...), ex)
	p = tea.NewProgram(model, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running browser: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.Downloaded(), nil
	}
	return "", nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/mediagrab/internal/selection"
	"github.com/pdiddy/mediagrab/pkg/types"
)

var (
	keyQuit      = key.NewBinding(key.WithKeys("ctrl+c"))
	keyQuitShort = key.NewBinding(key.WithKeys("q"))
	keySubmit    = key.NewBinding(key.WithKeys("enter"))
	keyClear     = key.NewBinding(key.WithKeys("esc"))
	keyMode      = key.NewBinding(key.WithKeys("tab", "m"))
	keyUp        = key.NewBinding(key.WithKeys("up", "k"))
	keyDown      = key.NewBinding(key.WithKeys("down", "j"))
	keyDownload  = key.NewBinding(key.WithKeys("d", "enter"))
	keyNew       = key.NewBinding(key.WithKeys("n"))
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.errorMessage = ""
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case extractionDoneMsg:
		_ = m.machine.Resolve(msg.outcome)
		if _, failed := m.machine.State().(selection.Failed); failed {
			m.input.Focus()
		}
		return m, nil

	case foundExpiredMsg:
		return m, nil

	case spinner.TickMsg:
		if m.machine.State().Phase() != selection.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keyQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.machine.State().(type) {
	case selection.Loading:
		return m, nil
	case selection.Success:
		return m.handleResultKey(msg)
	}

	// Idle and Failed both take a URL.
	switch {
	case key.Matches(msg, keySubmit):
		return m.submit()
	case key.Matches(msg, keyClear):
		_ = m.machine.NewSearch()
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	url := strings.TrimSpace(m.input.Value())
	if err := m.machine.Submit(url); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	m.downloaded = ""
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, runExtraction(m.ctx, m.ex, url))
}

func (m Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyQuitShort):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keyMode):
		st := m.machine.State().(selection.Success)
		next := types.MediaAudio
		if st.Selection.Mode == types.MediaAudio {
			next = types.MediaVideo
		}
		if err := m.machine.ChangeMode(next); err != nil {
			m.errorMessage = "No " + string(next) + " formats for this media"
		}

	case key.Matches(msg, keyUp):
		m.moveTier(-1)

	case key.Matches(msg, keyDown):
		m.moveTier(1)

	case key.Matches(msg, keyDownload):
		target, err := m.machine.TriggerDownload()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.downloaded = target

	case key.Matches(msg, keyNew):
		_ = m.machine.NewSearch()
		m.downloaded = ""
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// moveTier moves the selection within the current mode's formats, stopping
// at either end.
func (m Model) moveTier(delta int) {
	st, ok := m.machine.State().(selection.Success)
	if !ok {
		return
	}
	formats := st.Result.FormatsFor(st.Selection.Mode)
	i := indexOf(formats, st.Selection.Tier) + delta
	if i < 0 || i >= len(formats) {
		return
	}
	_ = m.machine.ChangeTier(formats[i].ID)
}

func indexOf(formats []types.FormatDescriptor, id string) int {
	for i, f := range formats {
		if f.ID == id {
			return i
		}
	}
	return 0
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/internal/selection"
	"github.com/pdiddy/mediagrab/pkg/types"
)

const resultBody = `{"title":"Clip","duration":"3725","formats":[
	{"format_id":"v1","type":"video","tier":"highest","ext":"mp4","quality":"1080p","url":"https://cdn.example.com/v1"},
	{"format_id":"v2","type":"video","tier":"lowest","ext":"mp4","quality":"360p","url":"https://cdn.example.com/v2"},
	{"format_id":"a1","type":"audio","tier":"highest","ext":"m4a","quality":"128kbps","url":"https://cdn.example.com/a1"}]}`

type fixedExtractor struct {
	out  gateway.Outcome
	seen []string
}

func (f *fixedExtractor) ExtractURL(_ context.Context, u string) gateway.Outcome {
	f.seen = append(f.seen, u)
	return f.out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

// loaded drives a fresh model through a successful extraction.
func loaded(t *testing.T) (Model, *selection.Machine) {
	t.Helper()
	machine := selection.New()
	m := NewModel(context.Background(), machine, &fixedExtractor{})
	m = send(t, m, runes("https://example.com/video"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, selection.PhaseLoading, machine.State().Phase())
	m = send(t, m, extractionDoneMsg{outcome: gateway.Success([]byte(resultBody))})
	require.Equal(t, selection.PhaseSuccess, machine.State().Phase())
	return m, machine
}

func selected(t *testing.T, machine *selection.Machine) types.Selection {
	t.Helper()
	st, ok := machine.State().(selection.Success)
	require.True(t, ok)
	return st.Selection
}

func TestSubmitRunsExtraction(t *testing.T) {
	ex := &fixedExtractor{out: gateway.Success([]byte(resultBody))}
	machine := selection.New()
	m := NewModel(context.Background(), machine, ex)

	m = send(t, m, runes("https://example.com/video"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, selection.Loading{URL: "https://example.com/video"}, machine.State())
	assert.Contains(t, m.View(), "Extracting https://example.com/video")

	msg := runExtraction(context.Background(), ex, "https://example.com/video")()
	m = send(t, m, msg)
	assert.Equal(t, []string{"https://example.com/video"}, ex.seen)
	assert.Equal(t, selection.PhaseSuccess, machine.State().Phase())

	view := m.View()
	assert.Contains(t, view, "Media found")
	assert.Contains(t, view, "Clip")
	assert.Contains(t, view, "1:02:05")
	assert.Contains(t, view, "Best · 1080p · mp4")
}

func TestEmptySubmitShowsError(t *testing.T) {
	machine := selection.New()
	m := send(t, NewModel(context.Background(), machine, &fixedExtractor{}), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, selection.Idle{}, machine.State())
	assert.Contains(t, m.View(), selection.ErrEmptyURL.Error())
}

func TestKeysWhileLoadingAreIgnored(t *testing.T) {
	machine := selection.New()
	m := send(t, NewModel(context.Background(), machine, &fixedExtractor{}),
		runes("https://example.com/video"), tea.KeyMsg{Type: tea.KeyEnter})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("n"), runes("q"))
	assert.Equal(t, selection.PhaseLoading, machine.State().Phase())
	assert.False(t, m.quitting)
}

func TestResultNavigation(t *testing.T) {
	m, machine := loaded(t)
	assert.Equal(t, types.Selection{Mode: types.MediaVideo, Tier: "v1"}, selected(t, machine))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "v2", selected(t, machine).Tier)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "v2", selected(t, machine).Tier, "stops at the last format")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "v1", selected(t, machine).Tier)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, types.Selection{Mode: types.MediaAudio, Tier: "a1"}, selected(t, machine))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, types.Selection{Mode: types.MediaVideo, Tier: "v1"}, selected(t, machine))
	_ = m
}

func TestDownloadKey(t *testing.T) {
	m, machine := loaded(t)

	m = send(t, m, runes("d"))
	assert.Equal(t, "https://cdn.example.com/v1", m.Downloaded())
	assert.True(t, machine.State().(selection.Success).DownloadInitiated)
	assert.Contains(t, m.View(), "Download initiated")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.NotContains(t, m.View(), "Download initiated", "a new selection has not been downloaded")
}

func TestModeUnavailable(t *testing.T) {
	machine := selection.New()
	m := NewModel(context.Background(), machine, &fixedExtractor{})
	m = send(t, m, runes("u"), tea.KeyMsg{Type: tea.KeyEnter},
		extractionDoneMsg{outcome: gateway.Success([]byte(`{"formats":[{"format_id":"a1","type":"audio","url":"x"}]}`))},
		tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, types.MediaAudio, selected(t, machine).Mode)
	assert.Contains(t, m.View(), "No video formats")
}

func TestNewSearchAndQuit(t *testing.T) {
	m, machine := loaded(t)

	m = send(t, m, runes("n"))
	assert.Equal(t, selection.Idle{}, machine.State())
	assert.Empty(t, m.input.Value())

	// q is text while typing a URL.
	m = send(t, m, runes("q"))
	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.input.Value())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFailureThenRetry(t *testing.T) {
	machine := selection.New()
	m := NewModel(context.Background(), machine, &fixedExtractor{})
	m = send(t, m, runes("https://example.com/video"), tea.KeyMsg{Type: tea.KeyEnter},
		extractionDoneMsg{outcome: gateway.Timeout()})

	assert.Equal(t, selection.Failed{Kind: gateway.KindTimeout, Message: gateway.MsgTimeout}, machine.State())
	assert.Contains(t, m.View(), gateway.MsgTimeout)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, selection.PhaseLoading, machine.State().Phase(), "the URL is kept for a retry")

	m = send(t, m, extractionDoneMsg{outcome: gateway.BackendUnreachable()}, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, selection.Idle{}, machine.State())
	assert.Empty(t, m.input.Value())
}

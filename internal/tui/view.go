// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/mediagrab/internal/render"
	"github.com/pdiddy/mediagrab/internal/selection"
	"github.com/pdiddy/mediagrab/pkg/types"
)

// Styles with adaptive colors for light/dark backgrounds
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "63"}).
			Padding(1, 2)
)

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("mediagrab") + "\n\n")

	switch st := m.machine.State().(type) {
	case selection.Idle:
		b.WriteString(m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter: extract • ctrl+c: quit"))
	case selection.Loading:
		fmt.Fprintf(&b, "%s Extracting %s\n", m.spinner.View(), st.URL)
		b.WriteString(helpStyle.Render("ctrl+c: quit"))
	case selection.Failed:
		b.WriteString(errorStyle.Render(st.Message) + "\n\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString(helpStyle.Render("enter: retry • esc: clear • ctrl+c: quit"))
	case selection.Success:
		b.WriteString(m.viewResult(st))
	}

	if m.errorMessage != "" {
		b.WriteString("\n" + errorStyle.Render(m.errorMessage))
	}
	return b.String() + "\n"
}

func (m Model) viewResult(st selection.Success) string {
	var b strings.Builder
	res, sel := st.Result, st.Selection

	if m.machine.FoundVisible() {
		b.WriteString(successStyle.Render("✓ Media found") + "\n\n")
	}

	header := lipgloss.NewStyle().Bold(true).Render(res.Title)
	if d := render.Duration(res.DurationSeconds); d != "" {
		header += helpStyle.Render("  " + d)
	}
	b.WriteString(header + "\n\n")

	var tabs []string
	for _, mode := range []types.MediaType{types.MediaVideo, types.MediaAudio} {
		if !res.HasMedia(mode) {
			continue
		}
		label := strings.ToUpper(string(mode[:1])) + string(mode[1:])
		if mode == sel.Mode {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "   ") + "\n\n")

	for _, f := range res.FormatsFor(sel.Mode) {
		line := render.FormatLine(f)
		if f.ID == sel.Tier {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if m.downloaded != "" && st.DownloadInitiated {
		b.WriteString("\n" + successStyle.Render("Download initiated") + "\n")
		b.WriteString(boxStyle.Render(m.downloaded) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab: video/audio • ↑/↓: quality • d: download • n: new search • q: quit"))
	return b.String()
}

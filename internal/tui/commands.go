// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/mediagrab/internal/selection"
)

func runExtraction(ctx context.Context, ex selection.Extractor, url string) tea.Cmd {
	return func() tea.Msg {
		return extractionDoneMsg{outcome: ex.ExtractURL(ctx, url)}
	}
}

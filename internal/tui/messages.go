// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import "github.com/pdiddy/mediagrab/internal/gateway"

// extractionDoneMsg carries the outcome of the in-flight extraction.
type extractionDoneMsg struct {
	outcome gateway.Outcome
}

// foundExpiredMsg asks for a redraw once the "found" signal lowers itself.
type foundExpiredMsg struct{}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render formats extraction results for people: durations, sizes,
// tier names, and one-line format summaries shared by the CLI and the TUI.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/mediagrab/pkg/types"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

var tierLabels = map[string]string{
	types.TierHighest: "Best",
	types.TierMid:     "Medium",
	types.TierLowest:  "Low",
}

// Duration renders a whole-second count as H:MM:SS, or M:SS under an hour.
// Unparseable or empty input renders as "".
func Duration(seconds string) string {
	s, err := strconv.Atoi(strings.TrimSpace(seconds))
	if err != nil || s < 0 {
		return ""
	}
	h, m, sec := s/3600, (s%3600)/60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// Size renders a byte count in KB, MB, or GB. Zero means unknown and renders
// as "".
func Size(bytes int64) string {
	switch {
	case bytes <= 0:
		return ""
	case bytes < mib:
		return fmt.Sprintf("%.0f KB", float64(bytes)/kib)
	case bytes < gib:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mib)
	default:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gib)
	}
}

// TierLabel maps the backend's tier names to display names. Unknown tiers
// pass through unchanged.
func TierLabel(tier string) string {
	if l, ok := tierLabels[tier]; ok {
		return l
	}
	return tier
}

// FormatLine summarizes a descriptor, e.g. "Best · 1080p · mp4 · 1.0 MB".
// Empty parts are left out.
func FormatLine(f types.FormatDescriptor) string {
	var parts []string
	for _, p := range []string{TierLabel(f.Tier), f.QualityLabel, f.Container, Size(f.SizeBytes)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return f.ID
	}
	return strings.Join(parts, " · ")
}

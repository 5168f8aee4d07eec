// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"fmt"
	"net/url"

	"github.com/pdiddy/mediagrab/pkg/types"
)

const downloadPath = "/download"

// DefaultMode is video when the result has any video format, audio otherwise.
func DefaultMode(res types.ExtractionResult) types.MediaType {
	if res.HasMedia(types.MediaVideo) {
		return types.MediaVideo
	}
	return types.MediaAudio
}

// DefaultTierFor returns the ID of the best format for mode m: the first
// format explicitly tiered "highest", else the first format of that mode
// (the backend lists formats best-first). ok is false when the result has no
// format of that mode.
func DefaultTierFor(res types.ExtractionResult, m types.MediaType) (id string, ok bool) {
	formats := res.FormatsFor(m)
	if len(formats) == 0 {
		return "", false
	}
	for _, f := range formats {
		if f.Tier == types.TierHighest {
			return f.ID, true
		}
	}
	return formats[0].ID, true
}

// DefaultSelection is the selection installed with a new result.
func DefaultSelection(res types.ExtractionResult) types.Selection {
	mode := DefaultMode(res)
	tier, _ := DefaultTierFor(res, mode)
	return types.Selection{Mode: mode, Tier: tier}
}

// DownloadTarget derives the URL the browser should fetch for sel. It is a
// pure function of its arguments. A format with a direct link yields that
// link; otherwise the backend's generic endpoint is addressed as
// <download_base>/download?mode=..&quality=..&title=..&url=.. with every value
// query-escaped.
//
// It returns ErrUnknownTier when sel does not name a format of sel.Mode and
// ErrUnusableResult when the format has no download location; neither can
// happen for a selection the Machine produced.
func DownloadTarget(res types.ExtractionResult, sel types.Selection) (string, error) {
	f, ok := res.Format(sel.Tier)
	if !ok || f.MediaType != sel.Mode {
		return "", fmt.Errorf("%w: %q is not a %s format", ErrUnknownTier, sel.Tier, sel.Mode)
	}
	if f.DirectURL != "" {
		return f.DirectURL, nil
	}
	if res.DownloadBase == "" {
		return "", fmt.Errorf("%w: no download location for format %q", ErrUnusableResult, f.ID)
	}

	quality := f.Tier
	if quality == "" {
		quality = f.ID
	}
	q := url.Values{
		"url":     {res.SourceURL},
		"mode":    {string(sel.Mode)},
		"quality": {quality},
		"title":   {res.Title},
	}
	return res.DownloadBase + downloadPath + "?" + q.Encode(), nil
}

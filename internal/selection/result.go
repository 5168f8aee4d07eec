// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/mediagrab/pkg/types"
)

// ErrUnusableResult is returned by ParseResult when a successful extraction
// body cannot be turned into a selectable result.
var ErrUnusableResult = errors.New("unusable extraction result")

// MsgUnusableResult is what the user sees when ParseResult fails.
const MsgUnusableResult = "The extraction service returned an unusable result."

// wireResult accepts both backend contracts: the tiered one
// (video_formats + audio_format + download_base) and the direct one
// (formats with per-format url).
type wireResult struct {
	Title        string          `json:"title"`
	Thumbnail    string          `json:"thumbnail"`
	Duration     json.RawMessage `json:"duration"`
	SourceURL    string          `json:"source_url"`
	DownloadBase string          `json:"download_base"`

	VideoFormats []wireTier   `json:"video_formats"`
	AudioFormat  *wireTier    `json:"audio_format"`
	Formats      []wireFormat `json:"formats"`
}

type wireTier struct {
	Tier     string   `json:"tier"`
	Label    string   `json:"label"`
	Height   int      `json:"height"`
	Ext      string   `json:"ext"`
	Filesize *float64 `json:"filesize"`
}

type wireFormat struct {
	FormatID string   `json:"format_id"`
	Ext      string   `json:"ext"`
	Quality  string   `json:"quality"`
	Filesize *float64 `json:"filesize"`
	Type     string   `json:"type"`
	URL      string   `json:"url"`
	Tier     string   `json:"tier"`
}

// ParseResult decodes a backend extraction body. sourceURL is the URL the
// user submitted and fills in a missing source_url; fallbackBase is used as
// the download base only when the body provides neither a download_base nor
// direct links for every format.
//
// The returned result always has at least one format, unique format IDs, and
// a way to build a download target for every format.
func ParseResult(body []byte, sourceURL, fallbackBase string) (types.ExtractionResult, error) {
	var w wireResult
	if err := json.Unmarshal(body, &w); err != nil {
		return types.ExtractionResult{}, fmt.Errorf("%w: decoding: %v", ErrUnusableResult, err)
	}

	res := types.ExtractionResult{
		Title:           w.Title,
		ThumbnailURL:    w.Thumbnail,
		DurationSeconds: durationString(w.Duration),
		SourceURL:       w.SourceURL,
		DownloadBase:    strings.TrimRight(w.DownloadBase, "/"),
	}
	if res.SourceURL == "" {
		res.SourceURL = sourceURL
	}
	if res.Title == "" {
		res.Title = "download"
	}

	switch {
	case len(w.Formats) > 0:
		for _, f := range w.Formats {
			res.Formats = append(res.Formats, types.FormatDescriptor{
				ID:           f.FormatID,
				Container:    f.Ext,
				QualityLabel: f.Quality,
				Tier:         f.Tier,
				MediaType:    types.MediaType(f.Type),
				SizeBytes:    sizeBytes(f.Filesize),
				DirectURL:    f.URL,
			})
		}
	default:
		for _, v := range w.VideoFormats {
			res.Formats = append(res.Formats, tierDescriptor(types.MediaVideo, v))
		}
		if w.AudioFormat != nil {
			res.Formats = append(res.Formats, tierDescriptor(types.MediaAudio, *w.AudioFormat))
		}
	}

	if res.DownloadBase == "" && !allDirect(res.Formats) {
		res.DownloadBase = strings.TrimRight(fallbackBase, "/")
	}

	if err := validate(res); err != nil {
		return types.ExtractionResult{}, err
	}
	return res, nil
}

func tierDescriptor(m types.MediaType, t wireTier) types.FormatDescriptor {
	tier := t.Tier
	if tier == "" {
		tier = types.TierHighest
	}
	label := t.Label
	if label == "" && t.Height > 0 {
		label = fmt.Sprintf("%dp", t.Height)
	}
	return types.FormatDescriptor{
		ID:           string(m) + "-" + tier,
		Container:    t.Ext,
		QualityLabel: label,
		Tier:         tier,
		MediaType:    m,
		SizeBytes:    sizeBytes(t.Filesize),
	}
}

func validate(res types.ExtractionResult) error {
	if len(res.Formats) == 0 {
		return fmt.Errorf("%w: no formats", ErrUnusableResult)
	}
	seen := make(map[string]bool, len(res.Formats))
	for _, f := range res.Formats {
		if f.ID == "" {
			return fmt.Errorf("%w: format without id", ErrUnusableResult)
		}
		if seen[f.ID] {
			return fmt.Errorf("%w: duplicate format id %q", ErrUnusableResult, f.ID)
		}
		seen[f.ID] = true
		if !f.MediaType.Valid() {
			return fmt.Errorf("%w: format %q has media type %q", ErrUnusableResult, f.ID, f.MediaType)
		}
		if f.DirectURL == "" && res.DownloadBase == "" {
			return fmt.Errorf("%w: no download location for format %q", ErrUnusableResult, f.ID)
		}
	}
	return nil
}

func allDirect(formats []types.FormatDescriptor) bool {
	if len(formats) == 0 {
		return false
	}
	for _, f := range formats {
		if f.DirectURL == "" {
			return false
		}
	}
	return true
}

// durationString accepts the backend's duration as a string, a number, or null.
func durationString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		return fmt.Sprintf("%d", int64(n))
	}
	return ""
}

func sizeBytes(v *float64) int64 {
	if v == nil || *v <= 0 {
		return 0
	}
	return int64(*v)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MediaType distinguishes video-containing formats from audio-only formats.
// It doubles as the selection mode.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// Valid reports whether m is one of the known media types.
func (m MediaType) Valid() bool {
	return m == MediaVideo || m == MediaAudio
}

// Quality tiers emitted by the extraction backend. Tiers are free-form on the
// wire; these are the values the backend uses today.
const (
	TierHighest = "highest"
	TierMid     = "mid"
	TierLowest  = "lowest"
)

// ExtractionRequest is the payload accepted by the gateway and forwarded to
// the extraction backend.
type ExtractionRequest struct {
	URL string `json:"url"`
}

// FormatDescriptor is one downloadable variant of the source media.
type FormatDescriptor struct {
	// ID is unique within a single ExtractionResult.
	ID string `json:"id" yaml:"id"`

	// Container is the file extension of the variant (e.g. "mp4", "mp3").
	Container string `json:"container" yaml:"container"`

	// QualityLabel is a human label such as "1080p" or "160kbps".
	QualityLabel string `json:"quality_label" yaml:"quality_label"`

	// Tier is the quality bucket ("highest", "mid", "lowest") or a free-form value.
	Tier string `json:"tier,omitempty" yaml:"tier,omitempty"`

	MediaType MediaType `json:"media_type" yaml:"media_type"`

	// SizeBytes is the backend's size estimate; zero when unknown.
	SizeBytes int64 `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`

	// DirectURL is set when the backend hands out per-format links.
	DirectURL string `json:"direct_url,omitempty" yaml:"direct_url,omitempty"`
}

// ExtractionResult is the decoded form of a successful extraction. It is
// replaced wholesale on every extraction and never mutated in place.
type ExtractionResult struct {
	Title           string             `json:"title" yaml:"title"`
	ThumbnailURL    string             `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	DurationSeconds string             `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	Formats         []FormatDescriptor `json:"formats" yaml:"formats"`

	// SourceURL is the URL the user submitted.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// DownloadBase is the base of the backend's generic /download endpoint.
	// Empty when every descriptor carries a DirectURL.
	DownloadBase string `json:"download_base,omitempty" yaml:"download_base,omitempty"`
}

// FormatsFor returns the descriptors of the given media type in backend order.
func (r ExtractionResult) FormatsFor(m MediaType) []FormatDescriptor {
	var out []FormatDescriptor
	for _, f := range r.Formats {
		if f.MediaType == m {
			out = append(out, f)
		}
	}
	return out
}

// HasMedia reports whether the result has at least one descriptor of type m.
func (r ExtractionResult) HasMedia(m MediaType) bool {
	for _, f := range r.Formats {
		if f.MediaType == m {
			return true
		}
	}
	return false
}

// Format looks up a descriptor by ID.
func (r ExtractionResult) Format(id string) (FormatDescriptor, bool) {
	for _, f := range r.Formats {
		if f.ID == id {
			return f, true
		}
	}
	return FormatDescriptor{}, false
}

// Selection is the user's current choice over an ExtractionResult. Tier holds
// the ID of the selected FormatDescriptor, which always has MediaType == Mode.
type Selection struct {
	Mode MediaType `json:"mode" yaml:"mode"`
	Tier string    `json:"tier" yaml:"tier"`
}

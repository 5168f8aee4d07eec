// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mediagrab/pkg/types"
)

const tieredBody = `{
	"title": "Clip & Co",
	"thumbnail": "https://img.example.com/t.jpg",
	"duration": "125",
	"video_formats": [
		{"tier": "highest", "label": "1080p", "height": 1080, "ext": "mp4", "filesize": 1048576},
		{"tier": "mid", "label": "720p", "height": 720, "ext": "mp4", "filesize": null},
		{"tier": "lowest", "label": "", "height": 360, "ext": "mp4"}
	],
	"audio_format": {"tier": "highest", "label": "160kbps", "ext": "mp3", "filesize": 4096.7},
	"source_url": "https://example.com/video",
	"download_base": "https://api.example.com/"
}`

const directBody = `{
	"title": "Clip",
	"thumbnail": "",
	"formats": [
		{"format_id": "v1", "ext": "mp4", "quality": "1080p", "type": "video", "tier": "highest", "url": "https://cdn.example.com/v1"},
		{"format_id": "v2", "ext": "mp4", "quality": "360p", "type": "video", "url": "https://cdn.example.com/v2", "filesize": 2048},
		{"format_id": "a1", "ext": "m4a", "quality": "128kbps", "type": "audio", "tier": "highest", "url": "https://cdn.example.com/a1"}
	]
}`

func TestParseResult_Tiered(t *testing.T) {
	res, err := ParseResult([]byte(tieredBody), "https://ignored.example.com", "")
	require.NoError(t, err)

	assert.Equal(t, "Clip & Co", res.Title)
	assert.Equal(t, "https://img.example.com/t.jpg", res.ThumbnailURL)
	assert.Equal(t, "125", res.DurationSeconds)
	assert.Equal(t, "https://example.com/video", res.SourceURL)
	assert.Equal(t, "https://api.example.com", res.DownloadBase)

	want := []types.FormatDescriptor{
		{ID: "video-highest", Container: "mp4", QualityLabel: "1080p", Tier: "highest", MediaType: types.MediaVideo, SizeBytes: 1048576},
		{ID: "video-mid", Container: "mp4", QualityLabel: "720p", Tier: "mid", MediaType: types.MediaVideo},
		{ID: "video-lowest", Container: "mp4", QualityLabel: "360p", Tier: "lowest", MediaType: types.MediaVideo},
		{ID: "audio-highest", Container: "mp3", QualityLabel: "160kbps", Tier: "highest", MediaType: types.MediaAudio, SizeBytes: 4096},
	}
	assert.Equal(t, want, res.Formats)
}

func TestParseResult_Direct(t *testing.T) {
	res, err := ParseResult([]byte(directBody), "https://example.com/video", "https://fallback.example.com")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/video", res.SourceURL, "source url defaults to the submitted url")
	assert.Empty(t, res.DownloadBase, "fallback is not used when every format has a direct link")
	require.Len(t, res.Formats, 3)
	assert.Equal(t, types.FormatDescriptor{
		ID: "v2", Container: "mp4", QualityLabel: "360p", MediaType: types.MediaVideo,
		SizeBytes: 2048, DirectURL: "https://cdn.example.com/v2",
	}, res.Formats[1])
}

func TestParseResult_FallbackBase(t *testing.T) {
	body := `{"title":"Clip","video_formats":[{"tier":"highest","label":"720p","ext":"mp4"}],"audio_format":null}`

	res, err := ParseResult([]byte(body), "https://example.com/video", "https://api.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", res.DownloadBase)
	assert.Len(t, res.Formats, 1)

	_, err = ParseResult([]byte(body), "https://example.com/video", "")
	assert.ErrorIs(t, err, ErrUnusableResult)
}

func TestParseResult_Duration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"61"`, "61"},
		{"number", `61.9`, "61"},
		{"null", `null`, ""},
		{"zero", `0`, ""},
		{"missing", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"title":"x","download_base":"https://api","video_formats":[{"tier":"highest"}]`
			if tt.raw != "" {
				body += `,"duration":` + tt.raw
			}
			body += `}`
			res, err := ParseResult([]byte(body), "u", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.DurationSeconds)
		})
	}
}

func TestParseResult_Unusable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"no formats", `{"title":"x","download_base":"https://api","video_formats":[],"audio_format":null}`},
		{"duplicate ids", `{"formats":[{"format_id":"a","type":"video","url":"u1"},{"format_id":"a","type":"audio","url":"u2"}]}`},
		{"missing id", `{"formats":[{"type":"video","url":"u1"}]}`},
		{"unknown media type", `{"formats":[{"format_id":"a","type":"subtitle","url":"u1"}]}`},
		{"no download location", `{"formats":[{"format_id":"a","type":"video","url":"u1"},{"format_id":"b","type":"video"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult([]byte(tt.body), "https://example.com/video", "")
			assert.ErrorIs(t, err, ErrUnusableResult)
		})
	}
}

func TestParseResult_MissingTitle(t *testing.T) {
	res, err := ParseResult([]byte(`{"formats":[{"format_id":"a","type":"audio","url":"u"}]}`), "s", "")
	require.NoError(t, err)
	assert.Equal(t, "download", res.Title)
}

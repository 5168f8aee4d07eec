// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"encoding/json"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/pkg/types"
)

// Phase names a machine state.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State is one of Idle, Loading, Success, or Failed. Each variant carries
// only the data valid in that phase.
type State interface {
	Phase() Phase
	isState()
}

// Idle waits for a URL.
type Idle struct{}

// Loading has an extraction in flight for URL.
type Loading struct {
	URL string
}

// Success holds an extraction result and the user's selection over it.
type Success struct {
	Result            types.ExtractionResult
	Selection         types.Selection
	DownloadInitiated bool
}

// Failed holds the message to show for a failed extraction.
type Failed struct {
	Kind    gateway.Kind
	Message string
}

func (Idle) Phase() Phase    { return PhaseIdle }
func (Loading) Phase() Phase { return PhaseLoading }
func (Success) Phase() Phase { return PhaseSuccess }
func (Failed) Phase() Phase  { return PhaseError }

func (Idle) isState()    {}
func (Loading) isState() {}
func (Success) isState() {}
func (Failed) isState()  {}

// Snapshot is the serializable form of a State.
type Snapshot struct {
	Phase             Phase                   `json:"phase" yaml:"phase"`
	URL               string                  `json:"url,omitempty" yaml:"url,omitempty"`
	Result            *types.ExtractionResult `json:"result,omitempty" yaml:"result,omitempty"`
	Selection         *types.Selection        `json:"selection,omitempty" yaml:"selection,omitempty"`
	DownloadURL       string                  `json:"download_url,omitempty" yaml:"download_url,omitempty"`
	DownloadInitiated bool                    `json:"download_initiated,omitempty" yaml:"download_initiated,omitempty"`
	ErrorKind         gateway.Kind            `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Message           string                  `json:"message,omitempty" yaml:"message,omitempty"`
}

// SnapshotOf flattens s for serialization. A Success snapshot includes the
// derived download URL.
func SnapshotOf(s State) Snapshot {
	switch st := s.(type) {
	case Loading:
		return Snapshot{Phase: PhaseLoading, URL: st.URL}
	case Success:
		res, sel := st.Result, st.Selection
		target, _ := DownloadTarget(res, sel)
		return Snapshot{
			Phase:             PhaseSuccess,
			URL:               res.SourceURL,
			Result:            &res,
			Selection:         &sel,
			DownloadURL:       target,
			DownloadInitiated: st.DownloadInitiated,
		}
	case Failed:
		return Snapshot{Phase: PhaseError, ErrorKind: st.Kind, Message: st.Message}
	default:
		return Snapshot{Phase: PhaseIdle}
	}
}

func (s Idle) MarshalJSON() ([]byte, error)    { return json.Marshal(SnapshotOf(s)) }
func (s Loading) MarshalJSON() ([]byte, error) { return json.Marshal(SnapshotOf(s)) }
func (s Success) MarshalJSON() ([]byte, error) { return json.Marshal(SnapshotOf(s)) }
func (s Failed) MarshalJSON() ([]byte, error)  { return json.Marshal(SnapshotOf(s)) }

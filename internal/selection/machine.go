// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection turns an extraction outcome into a concrete download
// target. It holds the client-side state machine that tracks the extraction
// lifecycle and the user's mode and quality choice:
//
//	Idle ──Submit──▶ Loading ──Resolve──▶ Success | Failed
//	Success | Failed ──Submit──▶ Loading
//	Success | Failed ──NewSearch──▶ Idle
//
// Only one extraction may be in flight; Submit while Loading is rejected.
package selection

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/pkg/types"
)

// DefaultToastDuration is how long the "found" signal stays up.
const DefaultToastDuration = 4 * time.Second

// Precondition violations. The machine's state is unchanged when a method
// returns one of these.
var (
	ErrEmptyURL        = errors.New("url is empty")
	ErrBusy            = errors.New("an extraction is already in flight")
	ErrNotLoading      = errors.New("no extraction is in flight")
	ErrNoResult        = errors.New("no extraction result")
	ErrUnknownTier     = errors.New("unknown tier for current mode")
	ErrModeUnavailable = errors.New("mode has no formats")
)

// Extractor runs one extraction. *gateway.Gateway and *client.Client both
// satisfy it.
type Extractor interface {
	ExtractURL(ctx context.Context, url string) gateway.Outcome
}

// Option configures a Machine.
type Option func(*Machine)

// WithToastDuration overrides DefaultToastDuration.
func WithToastDuration(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.toastDuration = d
		}
	}
}

// WithFallbackBase sets the download base used for results that carry
// neither a download base nor direct links.
func WithFallbackBase(base string) Option {
	return func(m *Machine) { m.fallbackBase = base }
}

// WithNotify registers fn to be called after a change that happens off the
// caller's goroutine (the found signal expiring).
func WithNotify(fn func()) Option {
	return func(m *Machine) { m.notify = fn }
}

// Machine is the selection state machine. It is safe for concurrent use, but
// it is meant to be driven by a single front end.
type Machine struct {
	mu    sync.Mutex
	state State

	toastDuration time.Duration
	fallbackBase  string
	notify        func()

	found      bool
	foundGen   uint64
	foundTimer *time.Timer
}

// New returns a Machine in the Idle state.
func New(opts ...Option) *Machine {
	m := &Machine{
		state:         Idle{},
		toastDuration: DefaultToastDuration,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a copy of the current state. Changing it does not affect
// the machine.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.state.(Success); ok {
		s.Result.Formats = slices.Clone(s.Result.Formats)
		return s
	}
	return m.state
}

// Submit starts an extraction of u, clearing any previous result or error.
func (m *Machine) Submit(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return ErrEmptyURL
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.state.(Loading); busy {
		return ErrBusy
	}
	m.clearFoundLocked()
	m.state = Loading{URL: u}
	return nil
}

// Resolve completes the in-flight extraction with out. A successful outcome
// whose body cannot be used resolves to Failed, so Loading always ends in
// exactly one of Success or Failed.
func (m *Machine) Resolve(out gateway.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loading, ok := m.state.(Loading)
	if !ok {
		return ErrNotLoading
	}

	if !out.IsSuccess() {
		m.state = Failed{Kind: out.Kind, Message: out.UserMessage()}
		return nil
	}

	res, err := ParseResult(out.Body, loading.URL, m.fallbackBase)
	if err != nil {
		m.state = Failed{Kind: gateway.KindInternalError, Message: MsgUnusableResult}
		return nil
	}
	m.state = Success{Result: res, Selection: DefaultSelection(res)}
	m.showFoundLocked()
	return nil
}

// Extract submits u, runs it through ex, and resolves the outcome. The only
// errors are Submit's precondition violations.
func (m *Machine) Extract(ctx context.Context, ex Extractor, u string) error {
	if err := m.Submit(u); err != nil {
		return err
	}
	return m.Resolve(ex.ExtractURL(ctx, strings.TrimSpace(u)))
}

// ChangeMode switches to mode and selects that mode's default tier.
func (m *Machine) ChangeMode(mode types.MediaType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.state.(Success)
	if !ok {
		return ErrNoResult
	}
	tier, ok := DefaultTierFor(s.Result, mode)
	if !ok {
		return fmt.Errorf("%w: %s", ErrModeUnavailable, mode)
	}
	m.state = Success{Result: s.Result, Selection: types.Selection{Mode: mode, Tier: tier}}
	return nil
}

// ChangeTier selects the format with ID id, which must belong to the current mode.
func (m *Machine) ChangeTier(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.state.(Success)
	if !ok {
		return ErrNoResult
	}
	f, ok := s.Result.Format(id)
	if !ok || f.MediaType != s.Selection.Mode {
		return fmt.Errorf("%w: %q", ErrUnknownTier, id)
	}
	m.state = Success{Result: s.Result, Selection: types.Selection{Mode: s.Selection.Mode, Tier: id}}
	return nil
}

// NewSearch clears a result or error and returns to Idle. It is a no-op when
// already Idle and rejected while an extraction is in flight.
func (m *Machine) NewSearch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state.(type) {
	case Loading:
		return ErrBusy
	case Idle:
		return nil
	}
	m.clearFoundLocked()
	m.state = Idle{}
	return nil
}

// DownloadTarget derives the download URL for the current selection.
func (m *Machine) DownloadTarget() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.state.(Success)
	if !ok {
		return "", ErrNoResult
	}
	return DownloadTarget(s.Result, s.Selection)
}

// TriggerDownload returns the download URL and records that a download was
// initiated. The fetch itself happens outside the machine, so the state says
// "initiated", never "done". Changing the selection clears the mark.
func (m *Machine) TriggerDownload() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.state.(Success)
	if !ok {
		return "", ErrNoResult
	}
	target, err := DownloadTarget(s.Result, s.Selection)
	if err != nil {
		return "", err
	}
	s.DownloadInitiated = true
	m.state = s
	return target, nil
}

// FoundVisible reports whether the transient "found" signal is showing.
func (m *Machine) FoundVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.found
}

// showFoundLocked raises the found signal and arms a fire-once timer that
// lowers it. The timer only acts if no newer extraction has started since.
func (m *Machine) showFoundLocked() {
	m.clearFoundLocked()
	m.found = true
	gen := m.foundGen
	m.foundTimer = time.AfterFunc(m.toastDuration, func() {
		m.mu.Lock()
		if m.foundGen != gen {
			m.mu.Unlock()
			return
		}
		m.found = false
		m.foundTimer = nil
		notify := m.notify
		m.mu.Unlock()
		if notify != nil {
			notify()
		}
	})
}

// clearFoundLocked lowers the found signal and invalidates any pending timer.
func (m *Machine) clearFoundLocked() {
	m.foundGen++
	m.found = false
	if m.foundTimer != nil {
		m.foundTimer.Stop()
		m.foundTimer = nil
	}
}

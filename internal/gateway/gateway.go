// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway relays extraction requests to the extraction backend and
// classifies every result into an Outcome the front end can render.
//
// A Gateway makes exactly one bounded backend call per request and never
// retries. It keeps no state between calls.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/mediagrab/internal/httputil"
	"github.com/pdiddy/mediagrab/pkg/types"
)

// DefaultTimeout bounds a backend call when the configuration does not.
const DefaultTimeout = 30 * time.Second

// MaxRequestBytes caps the inbound request body.
const MaxRequestBytes = 64 << 10

const extractPath = "/extract"

// Gateway forwards a URL to the backend's /extract endpoint.
type Gateway struct {
	cfg    types.GatewayConfig
	client *http.Client
}

// New returns a Gateway. A nil client uses a fresh http.Client; the bound is
// enforced through the request context, not client.Timeout.
func New(cfg types.GatewayConfig, client *http.Client) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Gateway{cfg: cfg, client: client}
}

// Configured reports whether a backend address is set.
func (g *Gateway) Configured() bool {
	return strings.TrimSpace(g.cfg.ExtractAPIURL) != ""
}

// Extract handles a raw inbound request body of the form {"url": "..."}.
// The url field must be present and a non-empty JSON string; otherwise the
// backend is not contacted and a client error is returned. A body that is not
// JSON at all is an internal error.
func (g *Gateway) Extract(ctx context.Context, body []byte) Outcome {
	if len(body) > MaxRequestBytes {
		return ClientError("Request body too large")
	}
	if !json.Valid(body) {
		return InternalError()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ClientError(MsgInvalidURL)
	}
	raw, ok := fields["url"]
	if !ok {
		return ClientError(MsgInvalidURL)
	}
	var u string
	if err := json.Unmarshal(raw, &u); err != nil {
		return ClientError(MsgInvalidURL)
	}
	return g.ExtractURL(ctx, u)
}

// ExtractURL runs one extraction for u. It blocks until the backend answers
// or the configured timeout elapses, whichever comes first.
func (g *Gateway) ExtractURL(ctx context.Context, u string) Outcome {
	if u == "" {
		return ClientError(MsgInvalidURL)
	}
	if !g.Configured() {
		return BackendUnreachable()
	}

	payload, err := json.Marshal(types.ExtractionRequest{URL: u})
	if err != nil {
		return InternalError()
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	endpoint, err := extractEndpoint(g.cfg.ExtractAPIURL)
	if err != nil {
		return BackendUnreachable()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return InternalError()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", g.cfg.UserAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := httputil.ReadBody(resp.Body)
	if err != nil {
		return classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return BackendError(resp.StatusCode, backendDetail(data))
	}
	if !json.Valid(data) {
		return InternalError()
	}
	return Success(data)
}

// extractEndpoint validates the configured backend address and returns the
// /extract URL under it. Only absolute http and https addresses are usable.
func extractEndpoint(base string) (string, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing backend address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("backend address %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("backend address %q: missing host", base)
	}
	return base + extractPath, nil
}

// classifyTransport maps a failed call onto timeout, unreachable, or the
// last-resort internal error. A caller that gave up is not the backend's fault.
func classifyTransport(err error) Outcome {
	switch {
	case errors.Is(err, context.Canceled):
		return InternalError()
	case httputil.IsTimeout(err):
		return Timeout()
	case httputil.IsConnectionFailure(err):
		return BackendUnreachable()
	default:
		return InternalError()
	}
}

// backendDetail extracts the "detail" string from a backend error body.
// Anything else (non-JSON, missing or non-string detail) yields "".
func backendDetail(body []byte) string {
	var eb struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

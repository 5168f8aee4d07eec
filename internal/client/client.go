// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client talks to a running gateway over HTTP. It is what the
// terminal front ends use when the gateway runs as a separate service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/internal/httputil"
	"github.com/pdiddy/mediagrab/pkg/types"
)

// ExtractPath is the gateway's inbound route.
const ExtractPath = "/api/extract"

// timeoutSlack lets the gateway report its own timeout before ours fires.
const timeoutSlack = 5 * time.Second

// Client posts extraction requests to a gateway.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string

	// Timeout bounds one round trip. Zero uses the gateway default plus slack.
	Timeout time.Duration
}

// New returns a Client for the gateway at baseURL.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{HTTP: hc, BaseURL: baseURL}
}

// ExtractURL asks the gateway to extract u and decodes its answer back into
// an Outcome. Failing to reach the gateway counts as the backend being
// unreachable.
func (c *Client) ExtractURL(ctx context.Context, u string) gateway.Outcome {
	if u == "" {
		return gateway.ClientError(gateway.MsgInvalidURL)
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return unreachable("")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = gateway.DefaultTimeout + timeoutSlack
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(types.ExtractionRequest{URL: u})
	if err != nil {
		return gateway.InternalError()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+ExtractPath, bytes.NewReader(payload))
	if err != nil {
		return unreachable(base)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return transportOutcome(err, base)
	}
	defer resp.Body.Close()

	data, err := httputil.ReadBody(resp.Body)
	if err != nil {
		return transportOutcome(err, base)
	}
	return gateway.FromResponse(resp.StatusCode, data)
}

// unreachable reports a gateway that could not be reached. The kind matches
// the gateway's own, but the message points at the client setting.
func unreachable(base string) gateway.Outcome {
	out := gateway.BackendUnreachable()
	if base == "" {
		out.Message = "No gateway address configured. Set client.gateway_url."
	} else {
		out.Message = fmt.Sprintf("Gateway at %s is not reachable. Check client.gateway_url.", base)
	}
	return out
}

func transportOutcome(err error, base string) gateway.Outcome {
	switch {
	case errors.Is(err, context.Canceled):
		return gateway.InternalError()
	case httputil.IsTimeout(err):
		return gateway.Timeout()
	case httputil.IsConnectionFailure(err):
		return unreachable(base)
	default:
		return gateway.InternalError()
	}
}

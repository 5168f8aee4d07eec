// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/pkg/types"
)

func TestExtractURL_RequestShape(t *testing.T) {
	var got types.ExtractionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ExtractPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "mediagrab-test", r.Header.Get("User-Agent"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"title":"Clip"}`)
	}))
	defer ts.Close()

	c := New(ts.URL+"/", ts.Client())
	c.UserAgent = "mediagrab-test"

	out := c.ExtractURL(context.Background(), "https://example.com/video")
	require.Equal(t, gateway.KindSuccess, out.Kind)
	assert.JSONEq(t, `{"title":"Clip"}`, string(out.Body))
	assert.Equal(t, "https://example.com/video", got.URL)
}

func TestExtractURL_DecodesGatewayOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind gateway.Kind
		wantMsg  string
	}{
		{"client error", 400, `{"error":"Missing or invalid URL"}`, gateway.KindClientError, gateway.MsgInvalidURL},
		{"timeout", 504, `{"error":"Request timed out. The media may be unavailable."}`, gateway.KindTimeout, gateway.MsgTimeout},
		{"unreachable", 503, `{"error":"Backend API is not connected. Set the EXTRACT_API_URL environment variable."}`, gateway.KindBackendUnreachable, gateway.MsgBackendUnreachable},
		{"backend rejection", 422, `{"error":"This media is unavailable or private"}`, gateway.KindBackendError, "This media is unavailable or private"},
		{"rate limited", 429, `{"error":"Too many requests. Try again later."}`, gateway.KindBackendError, "Too many requests. Try again later."},
		{"internal", 500, `{"error":"Internal server error"}`, gateway.KindInternalError, gateway.MsgInternal},
		{"garbage success", 200, `<html>`, gateway.KindInternalError, gateway.MsgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			out := New(ts.URL, ts.Client()).ExtractURL(context.Background(), "https://example.com/video")
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantMsg, out.UserMessage())
		})
	}
}

func TestExtractURL_GatewayDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	out := New("http://"+addr+"/", nil).ExtractURL(context.Background(), "https://example.com/video")
	assert.Equal(t, gateway.KindBackendUnreachable, out.Kind)
	assert.Contains(t, out.UserMessage(), "http://"+addr)
	assert.NotContains(t, out.UserMessage(), "EXTRACT_API_URL")

	out = New("", nil).ExtractURL(context.Background(), "https://example.com/video")
	assert.Equal(t, gateway.KindBackendUnreachable, out.Kind)
	assert.Contains(t, out.UserMessage(), "client.gateway_url")
	assert.NotContains(t, out.UserMessage(), "EXTRACT_API_URL")
}

func TestExtractURL_RemoteBackendDownKeepsGatewayMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"error":%q}`, gateway.MsgBackendUnreachable)
	}))
	defer ts.Close()

	out := New(ts.URL, ts.Client()).ExtractURL(context.Background(), "https://example.com/video")
	assert.Equal(t, gateway.BackendUnreachable(), out)
}

func TestExtractURL_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := New(ts.URL, ts.Client())
	c.Timeout = 50 * time.Millisecond

	out := c.ExtractURL(context.Background(), "https://example.com/video")
	assert.Equal(t, gateway.KindTimeout, out.Kind)
}

func TestExtractURL_EmptyURLNeverSent(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls.Add(1) }))
	defer ts.Close()

	out := New(ts.URL, ts.Client()).ExtractURL(context.Background(), "")
	assert.Equal(t, gateway.KindClientError, out.Kind)
	assert.Zero(t, calls.Load())
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single outbound call, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with outbound requests
	// (e.g. "mediagrab/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GatewayConfig holds settings for the extraction gateway.
type GatewayConfig struct {
	HTTPConfig `yaml:",inline"`

	// ExtractAPIURL is the base address of the extraction backend. The
	// gateway posts to ExtractAPIURL + "/extract". Empty means unconfigured.
	ExtractAPIURL string `json:"extract_api_url" yaml:"extract_api_url"`
}

// ServerConfig holds settings for the inbound HTTP boundary.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// AllowedOrigins lists the origins permitted by CORS.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	// RateLimit is the number of extraction requests a single client IP may
	// make per RateWindow (default 10). Zero or negative disables limiting.
	RateLimit int `json:"rate_limit" yaml:"rate_limit"`

	// RateWindow is the window RateLimit applies to (default 60s).
	RateWindow time.Duration `json:"rate_window" yaml:"rate_window"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ClientConfig holds settings for the extract and browse front ends.
type ClientConfig struct {
	// GatewayURL points at a running gateway. Empty runs the gateway in-process.
	GatewayURL string `json:"gateway_url,omitempty" yaml:"gateway_url,omitempty"`

	// DownloadBase is used when a result carries neither a download base nor
	// per-format links.
	DownloadBase string `json:"download_base,omitempty" yaml:"download_base,omitempty"`

	// ToastDuration is how long the "found" signal stays visible (default 4s).
	ToastDuration time.Duration `json:"toast_duration" yaml:"toast_duration"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Client  ClientConfig  `json:"client" yaml:"client"`
}

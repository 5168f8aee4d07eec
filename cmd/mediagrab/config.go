// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/internal/selection"
	"github.com/pdiddy/mediagrab/internal/server"
	"github.com/pdiddy/mediagrab/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", gateway.DefaultTimeout)
	v.SetDefault("user_agent", "mediagrab/"+version)
	v.SetDefault("server.addr", server.DefaultAddr)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit", server.DefaultRateLimit)
	v.SetDefault("server.rate_window", server.DefaultRateWindow)
	v.SetDefault("server.shutdown_timeout", server.DefaultShutdownTimeout)
	v.SetDefault("client.toast_duration", selection.DefaultToastDuration)
}

// loadConfig assembles the effective configuration from v.
func loadConfig(v *viper.Viper) types.AppConfig {
	return types.AppConfig{
		Gateway: types.GatewayConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   positive(v.GetDuration("timeout"), gateway.DefaultTimeout),
				UserAgent: v.GetString("user_agent"),
			},
			ExtractAPIURL: strings.TrimSpace(v.GetString("extract_api_url")),
		},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			AllowedOrigins:  splitList(v.GetStringSlice("server.allowed_origins")),
			RateLimit:       v.GetInt("server.rate_limit"),
			RateWindow:      v.GetDuration("server.rate_window"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Client: types.ClientConfig{
			GatewayURL:    strings.TrimSpace(v.GetString("client.gateway_url")),
			DownloadBase:  strings.TrimSpace(v.GetString("client.download_base")),
			ToastDuration: positive(v.GetDuration("client.toast_duration"), selection.DefaultToastDuration),
		},
	}
}

// downloadBase is the base for generic download links when the backend's
// response omits one. An in-process gateway talks to the backend directly,
// so the backend address serves.
func downloadBase(cfg types.AppConfig) string {
	if cfg.Client.DownloadBase != "" {
		return cfg.Client.DownloadBase
	}
	if cfg.Client.GatewayURL == "" {
		return cfg.Gateway.ExtractAPIURL
	}
	return ""
}

func positive(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// splitList flattens comma-separated entries, which is how list settings
// arrive from environment variables and config files.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(loadConfig(viper.GetViper()))
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

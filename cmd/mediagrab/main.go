// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mediagrab CLI. It runs the
// extraction gateway as an HTTP service and drives the selection state
// machine from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mediagrab/internal/configdir"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultConfigDir = ".mediagrab.d/"

var rootCmd = &cobra.Command{
	Use:   "mediagrab",
	Short: "Extract downloadable formats from media page URLs",
	Long: `mediagrab relays media page URLs to an extraction backend and turns the
result into a download link for the format you pick.

Run "mediagrab serve" to expose the gateway over HTTP for browser front ends,
"mediagrab extract URL" for a one-shot lookup, or "mediagrab browse" for an
interactive terminal picker. The backend address comes from extract_api_url
in mediagrab.yaml or the EXTRACT_API_URL environment variable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("config-dir")
		values, err := configdir.Load(dir, os.Stderr)
		if err != nil {
			return err
		}
		configdir.Apply(viper.GetViper(), values)
		if len(values) > 0 {
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded config files: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mediagrab.yaml or ~/.config/mediagrab/mediagrab.yaml)")
	rootCmd.PersistentFlags().String("config-dir", defaultConfigDir, "directory of one-value-per-file settings")
	rootCmd.PersistentFlags().String("extract-api-url", "", "extraction backend base URL")
	rootCmd.PersistentFlags().Duration("timeout", 0, "backend call timeout (default 30s)")
	rootCmd.PersistentFlags().String("gateway-url", "", "use a running gateway instead of calling the backend directly")

	_ = viper.BindPFlag("extract_api_url", rootCmd.PersistentFlags().Lookup("extract-api-url"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("client.gateway_url", rootCmd.PersistentFlags().Lookup("gateway-url"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mediagrab")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mediagrab"))
		}
	}

	viper.SetEnvPrefix("MEDIAGRAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Deployments already set these unprefixed.
	_ = viper.BindEnv("extract_api_url", "MEDIAGRAB_EXTRACT_API_URL", "EXTRACT_API_URL")
	_ = viper.BindEnv("server.allowed_origins", "MEDIAGRAB_SERVER_ALLOWED_ORIGINS", "ALLOWED_ORIGINS")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package configdir loads settings from a directory of plain-text files, one
// setting per file. This suits mounted config maps and secret volumes where
// each value arrives as its own file.
//
// A file's name is its config key with "-" standing in for "_", so
// extract-api-url sets extract_api_url and server.rate-limit sets
// server.rate_limit. The trimmed file contents are the value.
package configdir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads every regular, non-hidden file in dir and returns config keys
// mapped to values. A missing directory yields an empty map. Files that
// cannot be read are reported to warn and skipped.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading config directory %s: %w", dir, err)
	}

	values := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if warn != nil {
				fmt.Fprintf(warn, "warning: could not read config file %s: %v\n", name, err)
			}
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			values[Key(name)] = value
		}
	}
	return values, nil
}

// Key converts a file name to the config key it sets.
func Key(filename string) string {
	return strings.ToLower(strings.ReplaceAll(filename, "-", "_"))
}

// Apply installs values as defaults on v, so flags, environment variables,
// and the config file all still take precedence.
func Apply(v *viper.Viper, values map[string]string) {
	for k, val := range values {
		v.SetDefault(k, val)
	}
}

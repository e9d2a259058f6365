// Package config loads the client configuration from the config file, the
// environment and command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// xdgFallbacks are used for XDG base directories missing from the
// environment.
var xdgFallbacks = map[string]string{
	"XDG_CONFIG_HOME": "~/.config",
	"XDG_DATA_HOME":   "~/.local/share",
}

// ExpandPath expands environment variables and a leading ~ in path. Unset
// XDG base directories expand to their defaults.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	path = os.Expand(path, func(name string) string {
		if v := os.Getenv(name); v != "" {
			return v
		}
		return xdgFallbacks[name]
	})

	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

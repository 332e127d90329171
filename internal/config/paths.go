// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"os"
	"path/filepath"
)

// AppName names the configuration and state directories.
const AppName = "libgallery"

// GetXDGConfigHome returns XDG config directory.
func GetXDGConfigHome() string {
	return GetXDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// GetXDGConfigHomeWithEnv returns XDG config directory with custom environment override for testing.
func GetXDGConfigHomeWithEnv(xdgConfigHome string) string {
	return xdgDir(xdgConfigHome, ".config")
}

// GetXDGStateHome returns XDG state directory.
func GetXDGStateHome() string {
	return GetXDGStateHomeWithEnv(os.Getenv("XDG_STATE_HOME"))
}

// GetXDGStateHomeWithEnv returns XDG state directory with custom environment override for testing.
func GetXDGStateHomeWithEnv(xdgStateHome string) string {
	return xdgDir(xdgStateHome, ".local", "state")
}

// DefaultConfigPath is the TOML file read when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(GetXDGConfigHome(), AppName, "config.toml")
}

// DefaultLogPath is where the terminal UI writes its log.
func DefaultLogPath() string {
	return filepath.Join(GetXDGStateHome(), AppName, AppName+".log")
}

func xdgDir(override string, fallback ...string) string {
	if override != "" {
		return override
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{home}, fallback...)...)
	}

	return ""
}

// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathUtils_XDGDirectories(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name    string
		resolve func(string) string
		env     string
		want    string
	}{
		{
			name:    "uses XDG_CONFIG_HOME when set",
			resolve: GetXDGConfigHomeWithEnv,
			env:     "/custom/config",
			want:    "/custom/config",
		},
		{
			name:    "falls back to ~/.config",
			resolve: GetXDGConfigHomeWithEnv,
			want:    filepath.Join(home, ".config"),
		},
		{
			name:    "uses XDG_STATE_HOME when set",
			resolve: GetXDGStateHomeWithEnv,
			env:     "/custom/state",
			want:    "/custom/state",
		},
		{
			name:    "falls back to ~/.local/state",
			resolve: GetXDGStateHomeWithEnv,
			want:    filepath.Join(home, ".local", "state"),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.want, testCase.resolve(testCase.env))
		})
	}
}

func TestPathUtils_DefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	require.Equal(t, "/xdg/config/libgallery/config.toml", DefaultConfigPath())
	require.Equal(t, "/xdg/state/libgallery/libgallery.log", DefaultLogPath())
}

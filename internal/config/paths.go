// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the application name.
	AppName = "boson"
	// DescriptorDirName is the user descriptor directory inside the XDG
	// config home, next to (not inside) ConfigDir.
	DescriptorDirName = "boson.d"
	// DataDirName is the factory descriptor directory next to the executable.
	DataDirName = "data"
	// LibDirName is the bundled library directory next to the executable.
	LibDirName = "lib"
)

// configHomeOverride allows tests to override the XDG config home.
var configHomeOverride string

// SetConfigHomeOverride replaces $XDG_CONFIG_HOME for ConfigHome.
// This is primarily intended for testing to bypass os.UserHomeDir().
func SetConfigHomeOverride(dir string) {
	configHomeOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configHomeOverride = ""
}

// ConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func ConfigHome() (string, error) {
	if configHomeOverride != "" {
		return configHomeOverride, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// ConfigDir returns the directory holding settings.toml,
// $XDG_CONFIG_HOME/boson.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	home, err := ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, AppName), nil
}

// DescriptorDir returns the user title override directory,
// $XDG_CONFIG_HOME/boson.d.
func DescriptorDir() (string, error) {
	home, err := ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DescriptorDirName), nil
}

// ExecutableDir returns the directory containing the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get current executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}

// SearchDirs returns the descriptor directories in load order:
// the user descriptor directory, then the data directory next to exeDir.
// Either may be missing on disk.
func SearchDirs(exeDir string) []string {
	var dirs []string
	if dir, err := DescriptorDir(); err == nil {
		dirs = append(dirs, dir)
	}
	if exeDir != "" {
		dirs = append(dirs, filepath.Join(exeDir, DataDirName))
	}
	return dirs
}

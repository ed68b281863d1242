// SPDX-License-Identifier: MPL-2.0

// Package steamenv captures the environment handed to a Steam compatibility
// tool. The process environment is read exactly once into a Snapshot; every
// later lookup goes through the snapshot.
package steamenv

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	// ListSeparator separates entries of path-list variables.
	ListSeparator = ":"
	// DefaultElectronPath is used when ELECTRON_PATH is unset or empty.
	DefaultElectronPath = "electron"
)

var (
	// ErrAppIDUnset is returned when neither SteamAppId nor STEAM_COMPAT_APP_ID
	// carries a usable title id.
	ErrAppIDUnset = errors.New("no Steam app id in environment")
)

type (
	// Snapshot is an immutable view of the process environment.
	Snapshot struct {
		SteamAppID        string `env:"SteamAppId"`
		CompatAppID       string `env:"STEAM_COMPAT_APP_ID"`
		ClientInstallPath string `env:"STEAM_COMPAT_CLIENT_INSTALL_PATH"`
		// InstallPath is the title's install directory as reported by Steam.
		InstallPath string `env:"STEAM_COMPAT_INSTALL_PATH"`
		// LibraryPaths is the raw colon-delimited list of steamapps roots.
		LibraryPaths string `env:"STEAM_COMPAT_LIBRARY_PATHS"`
		// ToolPaths lists the tool directories Steam mounted for this launch,
		// boson's own directory among them.
		ToolPaths []string `env:"STEAM_COMPAT_TOOL_PATHS" envSeparator:":"`
		// LoadPath overrides payload discovery, relative to the install root.
		LoadPath     string `env:"BOSON_LOAD_PATH"`
		ElectronPath string `env:"ELECTRON_PATH" envDefault:"electron"`
		Preload      string `env:"LD_PRELOAD"`
		LibraryPath  string `env:"LD_LIBRARY_PATH"`
		Home         string `env:"HOME"`

		vars map[string]string
	}
)

// Capture snapshots the current process environment.
func Capture() (*Snapshot, error) {
	return FromEnviron(os.Environ())
}

// FromEnviron builds a snapshot from KEY=VALUE pairs.
func FromEnviron(environ []string) (*Snapshot, error) {
	return FromMap(env.ToMap(environ))
}

// FromMap builds a snapshot from a variable map. The map is copied.
func FromMap(vars map[string]string) (*Snapshot, error) {
	s := &Snapshot{vars: maps.Clone(vars)}
	if s.vars == nil {
		s.vars = map[string]string{}
	}
	if err := env.ParseWithOptions(s, env.Options{Environment: s.vars}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return s, nil
}

// Lookup returns the value of name and whether it was set.
func (s *Snapshot) Lookup(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Environ returns the snapshot as sorted KEY=VALUE pairs.
func (s *Snapshot) Environ() []string {
	keys := slices.Sorted(maps.Keys(s.vars))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+s.vars[k])
	}
	return out
}

// AppID returns the title id Steam launched, preferring SteamAppId over a
// numeric STEAM_COMPAT_APP_ID.
func (s *Snapshot) AppID() (uint32, error) {
	for _, raw := range []string{s.SteamAppID, s.CompatAppID} {
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 32)
		if err == nil {
			return uint32(id), nil
		}
	}
	return 0, ErrAppIDUnset
}

// LibraryRoots splits STEAM_COMPAT_LIBRARY_PATHS into its non-empty entries.
// The boolean reports whether the variable was set at all.
func (s *Snapshot) LibraryRoots() ([]string, bool) {
	if _, ok := s.vars["STEAM_COMPAT_LIBRARY_PATHS"]; !ok {
		return nil, false
	}
	return SplitList(s.LibraryPaths), true
}

// SplitList splits a colon-delimited list, dropping empty entries.
func SplitList(value string) []string {
	var out []string
	for entry := range strings.SplitSeq(value, ListSeparator) {
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

const (
	// DeferProton delegates the launch to an externally installed compatibility tool.
	DeferProton CompatType = iota
	// ForceNative runs the install path directly as an executable.
	ForceNative
	// Electron wraps a located application archive with an Electron runtime.
	Electron
	// Love wraps the title with the LÖVE runtime.
	Love

	// DefaultCompatToolDir is substituted when no layer sets compat_tool_dir.
	DefaultCompatToolDir = "Proton - Experimental"
)

var (
	// ErrInvalidCompatType is returned when a CompatType name is not recognized.
	ErrInvalidCompatType = errors.New("invalid compatibility type")

	compatTypeNames = [...]string{
		DeferProton: "DeferProton",
		ForceNative: "ForceNative",
		Electron:    "Electron",
		Love:        "Love",
	}
)

type (
	// TitleID is the numeric Steam application id of a title.
	TitleID uint32

	// CompatType selects which runtime strategy launches a title.
	// The zero value is DeferProton.
	CompatType int

	// InvalidCompatTypeError is returned when a CompatType value is not recognized.
	// It wraps ErrInvalidCompatType for errors.Is() compatibility.
	InvalidCompatTypeError struct {
		Value string
	}

	// TitleConfig holds per-title launch settings. One TitleConfig is a single
	// layer; layers are combined with Merge.
	TitleConfig struct {
		// CompatType selects the launch strategy.
		CompatType CompatType `toml:"compat_type"`
		// WrapperCommand overrides the compatibility type's default wrapper executable.
		WrapperCommand *string `toml:"wrapper_command,omitempty"`
		// WrapperArgs are passed to the wrapper before the caller's arguments.
		WrapperArgs []string `toml:"wrapper_args,omitempty"`
		// EnvVars are set on the child process after variable expansion.
		EnvVars map[string]string `toml:"env_vars,omitempty"`
		// AppendArgs are additional arguments meant for the title executable.
		AppendArgs []string `toml:"append_args,omitempty"`
		// ExtraPreloads are appended to LD_PRELOAD.
		ExtraPreloads []string `toml:"extra_preloads,omitempty"`
		// DisableSteamOverlay strips the overlay renderer from LD_PRELOAD and LD_LIBRARY_PATH.
		DisableSteamOverlay bool `toml:"disable_steam_overlay"`
		// CompatToolDir names the compatibility tool directory used by DeferProton.
		CompatToolDir *string `toml:"compat_tool_dir,omitempty"`
	}

	// ResolvedConfig is the result of merging runtime defaults, the global
	// default and the title override. It is built once per launch and must
	// not be mutated afterwards.
	ResolvedConfig struct {
		TitleID TitleID
		// HasOverride reports whether a title-specific override contributed.
		HasOverride bool
		TitleConfig
	}
)

// Error implements the error interface.
func (e *InvalidCompatTypeError) Error() string {
	return fmt.Sprintf("invalid compatibility type %q (valid: %v)", e.Value, compatTypeNames)
}

// Unwrap returns ErrInvalidCompatType so callers can use errors.Is for programmatic detection.
func (e *InvalidCompatTypeError) Unwrap() error { return ErrInvalidCompatType }

// ParseCompatType returns the CompatType with the given name.
func ParseCompatType(name string) (CompatType, error) {
	for i, n := range compatTypeNames {
		if n == name {
			return CompatType(i), nil
		}
	}
	return DeferProton, &InvalidCompatTypeError{Value: name}
}

// String returns the configuration-file name of the compatibility type.
func (c CompatType) String() string {
	if c < 0 || int(c) >= len(compatTypeNames) {
		return fmt.Sprintf("CompatType(%d)", int(c))
	}
	return compatTypeNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c CompatType) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(compatTypeNames) {
		return nil, &InvalidCompatTypeError{Value: c.String()}
	}
	return []byte(compatTypeNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CompatType) UnmarshalText(text []byte) error {
	parsed, err := ParseCompatType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CompatTypes returns every compatibility type in declaration order.
func CompatTypes() []CompatType {
	return []CompatType{DeferProton, ForceNative, Electron, Love}
}

// Clone returns a deep copy of the config so that the result shares no
// slices, maps or pointers with the receiver.
func (c TitleConfig) Clone() TitleConfig {
	out := c
	out.WrapperCommand = cloneString(c.WrapperCommand)
	out.CompatToolDir = cloneString(c.CompatToolDir)
	out.WrapperArgs = slices.Clone(c.WrapperArgs)
	out.AppendArgs = slices.Clone(c.AppendArgs)
	out.ExtraPreloads = slices.Clone(c.ExtraPreloads)
	out.EnvVars = maps.Clone(c.EnvVars)
	return out
}

// ToolDir returns the configured compatibility tool directory, or "" when unset.
func (c TitleConfig) ToolDir() string {
	if c.CompatToolDir == nil {
		return ""
	}
	return *c.CompatToolDir
}

// Wrapper returns the explicit wrapper command, or "" when unset.
func (c TitleConfig) Wrapper() string {
	if c.WrapperCommand == nil {
		return ""
	}
	return *c.WrapperCommand
}

// StringPtr returns a pointer to s. It keeps literal TitleConfig values short.
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

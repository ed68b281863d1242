// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// SettingsFileName is the application settings file inside ConfigDir.
	SettingsFileName = "settings.toml"
	// EnvPrefix prefixes environment variables that override settings.
	EnvPrefix = "BOSON"

	// LogFormatText renders human-readable log lines.
	LogFormatText LogFormat = "text"
	// LogFormatJSON renders one JSON object per line.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt renders logfmt key=value lines.
	LogFormatLogfmt LogFormat = "logfmt"
)

// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
var ErrInvalidLogFormat = errors.New("invalid log format")

type (
	// LogFormat selects the log output formatter.
	LogFormat string

	// Settings are application-level options that do not affect title resolution.
	Settings struct {
		Log LogSettings `mapstructure:"log"`
	}

	// LogSettings configures the process logger.
	LogSettings struct {
		// Level is one of debug, info, warn, error.
		Level string `mapstructure:"level"`
		// Format is one of text, json, logfmt.
		Format LogFormat `mapstructure:"format"`
		// Timestamps adds a timestamp to every log line.
		Timestamps bool `mapstructure:"timestamps"`
	}
)

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Log: LogSettings{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

// Validate reports whether the settings hold recognized values.
func (s Settings) Validate() error {
	switch s.Log.Format {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, s.Log.Format)
	}
}

// LoadSettings reads settings.toml from the config directory (when present)
// and applies BOSON_* environment overrides, e.g. BOSON_LOG_LEVEL=debug.
// An empty path selects the default location.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", string(defaults.Log.Format))
	v.SetDefault("log.timestamps", defaults.Log.Timestamps)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		cfgDir, err := ConfigDir()
		if err == nil {
			path = filepath.Join(cfgDir, SettingsFileName)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return defaults, fmt.Errorf("failed to read settings %s: %w", path, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return defaults, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return defaults, err
	}
	return s, nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/boson-compat/boson/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger builds the process logger from settings. verbose forces debug
// level; an unknown level falls back to info.
func newLogger(w io.Writer, s config.LogSettings, verbose bool) *log.Logger {
	level, err := log.ParseLevel(s.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          config.AppName,
		ReportTimestamp: s.Timestamps,
		Formatter:       formatterFor(s.Format),
	})
	if err != nil {
		logger.Warn("unknown log level, using info", "level", s.Level)
	}
	return logger
}

// installLogger makes the logger the slog default so library packages log
// through it.
func installLogger(logger *log.Logger) {
	slog.SetDefault(slog.New(logger))
}

func formatterFor(f config.LogFormat) log.Formatter {
	switch f {
	case config.LogFormatJSON:
		return log.JSONFormatter
	case config.LogFormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// SPDX-License-Identifier: MPL-2.0

// Package pathsearch locates the application payload inside a title's install
// tree and normalizes install paths handed over by Steam.
package pathsearch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrPayloadNotFound is the sentinel error wrapped by PayloadNotFoundError.
var ErrPayloadNotFound = errors.New("application payload not found")

// candidates are checked in order. Unpacked directories come before every
// archive so that an extracted copy of a title wins over a packed one.
var candidates = [...]string{
	"resources/app.asar.unpacked",
	"resources/app",
	"app.asar",
	"resources/app.asar",
}

// PayloadNotFoundError is returned when no candidate exists below Root.
// It wraps ErrPayloadNotFound for errors.Is() compatibility.
type PayloadNotFoundError struct {
	Root string
}

// Error implements the error interface.
func (e *PayloadNotFoundError) Error() string {
	return fmt.Sprintf("no application payload under %s (looked for %s)", e.Root, strings.Join(candidates[:], ", "))
}

// Unwrap returns ErrPayloadNotFound so callers can use errors.Is for programmatic detection.
func (e *PayloadNotFoundError) Unwrap() error { return ErrPayloadNotFound }

// Candidates returns the relative payload locations in priority order.
func Candidates() []string {
	out := make([]string, len(candidates))
	copy(out, candidates[:])
	return out
}

// ResolvePayload returns the payload path for the install root.
//
// A non-empty override is joined onto root and returned without checking that
// it exists. A root that already ends with one of the candidate locations is
// returned as is. Otherwise the first existing candidate wins.
func ResolvePayload(root, override string) (string, error) {
	if override != "" {
		path := filepath.Join(root, override)
		slog.Info("using payload override", "path", path)
		return path, nil
	}

	if hasCandidateSuffix(root) {
		slog.Info("install path is already a payload", "path", root)
		InspectPackage(root)
		return root, nil
	}

	for _, rel := range candidates {
		path := filepath.Join(root, filepath.FromSlash(rel))
		slog.Debug("checking payload candidate", "path", path)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			slog.Info("found unpacked payload", "path", path)
		} else {
			slog.Info("found payload archive", "path", path)
		}
		InspectPackage(path)
		return path, nil
	}

	return "", &PayloadNotFoundError{Root: root}
}

// hasCandidateSuffix reports whether path ends with a whole candidate
// location, compared component by component.
func hasCandidateSuffix(path string) bool {
	clean := filepath.ToSlash(filepath.Clean(path))
	for _, rel := range candidates {
		if clean == rel || strings.HasSuffix(clean, "/"+rel) {
			return true
		}
	}
	return false
}

// ResolveInstallPath turns a path handed over by Steam into an absolute,
// symlink-free install directory. A path naming a file resolves to the
// directory holding it.
func ResolveInstallPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve install path: %w", err)
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve install path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve install path: %w", err)
	}
	return resolved, nil
}

// SPDX-License-Identifier: MPL-2.0

// Package compattool locates an installed Steam compatibility tool (such as a
// Proton build) and turns its manifest into a wrapper invocation.
package compattool

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/boson-compat/boson/internal/shellexpand"
	"github.com/boson-compat/boson/internal/steamenv"
)

const (
	// CommonDirName is the games directory below each steamapps library root.
	CommonDirName = "common"
	// ToolsDirName holds user-installed compatibility tools inside the Steam client.
	ToolsDirName = "compatibilitytools.d"

	// VerbPlaceholder is replaced with the launch verb in manifest arguments.
	VerbPlaceholder = "%verb%"
	// VerbRun is the default launch verb.
	VerbRun = "run"
	// VerbWaitForExitAndRun is the verb Steam uses for the first launch of a session.
	VerbWaitForExitAndRun = "waitforexitandrun"
)

var (
	// ErrToolNotFound is the sentinel error wrapped by ToolNotFoundError.
	ErrToolNotFound = errors.New("compatibility tool not found")

	// ErrLibraryPathsUnset is returned when STEAM_COMPAT_LIBRARY_PATHS is absent.
	ErrLibraryPathsUnset = errors.New("STEAM_COMPAT_LIBRARY_PATHS is not set")
)

type (
	// ToolNotFoundError is returned when no search root holds the named tool.
	// It wraps ErrToolNotFound for errors.Is() compatibility.
	ToolNotFoundError struct {
		Name  string
		Roots []string
	}

	// Wrapper is the command a delegated launch runs in front of the title.
	Wrapper struct {
		Command string
		Args    []string
	}
)

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("compatibility tool %q not found in %s", e.Name, strings.Join(e.Roots, ", "))
}

// Unwrap returns ErrToolNotFound so callers can use errors.Is for programmatic detection.
func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// SearchRoots lists the directories that may contain compatibility tools:
// <library>/common for every Steam library, then the client's
// compatibilitytools.d when the client install path is known, then the
// parent of every STEAM_COMPAT_TOOL_PATHS entry. Duplicates are dropped.
func SearchRoots(env *steamenv.Snapshot) ([]string, error) {
	libraries, ok := env.LibraryRoots()
	if !ok {
		return nil, ErrLibraryPathsUnset
	}

	roots := make([]string, 0, len(libraries)+1+len(env.ToolPaths))
	add := func(root string) {
		root = filepath.Clean(root)
		if !slices.Contains(roots, root) {
			roots = append(roots, root)
		}
	}
	for _, lib := range libraries {
		add(filepath.Join(lib, CommonDirName))
	}
	if env.ClientInstallPath != "" {
		add(filepath.Join(env.ClientInstallPath, ToolsDirName))
	}
	for _, tool := range env.ToolPaths {
		if tool != "" {
			add(filepath.Dir(filepath.Clean(tool)))
		}
	}
	return roots, nil
}

// FindTool returns the first <root>/<name> directory across SearchRoots.
func FindTool(name string, env *steamenv.Snapshot) (string, error) {
	roots, err := SearchRoots(env)
	if err != nil {
		return "", err
	}
	return FindToolIn(name, roots)
}

// FindToolIn returns the first <root>/<name> that exists and is a directory.
func FindToolIn(name string, roots []string) (string, error) {
	for _, root := range roots {
		candidate := filepath.Join(root, name)
		slog.Debug("checking compatibility tool candidate", "path", candidate)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			slog.Info("found compatibility tool", "name", name, "path", candidate)
			return candidate, nil
		}
	}
	return "", &ToolNotFoundError{Name: name, Roots: roots}
}

// ParseWrapper reads the manifest in toolDir and builds the wrapper command.
//
// The command line loses one leading "/", is split on whitespace and every
// token is expanded against env. A relative command is resolved against
// toolDir. Occurrences of %verb% in the arguments become verb, which defaults
// to VerbRun.
func ParseWrapper(toolDir, verb string, env shellexpand.Environment) (*Wrapper, error) {
	m, err := LoadManifest(toolDir)
	if err != nil {
		return nil, err
	}
	slog.Debug("read compatibility tool manifest", "tool", toolDir, "version", m.Version,
		"commandline_waitforexitandrun", m.CommandLineWaitForExitAndRun)
	return m.Wrapper(toolDir, verb, env)
}

// Wrapper builds the wrapper command from the manifest's command line.
func (m *Manifest) Wrapper(toolDir, verb string, env shellexpand.Environment) (*Wrapper, error) {
	if verb == "" {
		verb = VerbRun
	}

	tokens := strings.Fields(strings.TrimPrefix(m.CommandLine, "/"))
	if len(tokens) == 0 {
		return nil, ErrEmptyCommandLine
	}

	command := shellexpand.Expand(tokens[0], env)
	if !filepath.IsAbs(command) {
		command = filepath.Join(toolDir, command)
	}

	args := shellexpand.ExpandAll(tokens[1:], env)
	for i, arg := range args {
		args[i] = strings.ReplaceAll(arg, VerbPlaceholder, verb)
	}

	slog.Debug("compatibility tool wrapper", "command", command, "args", args)
	return &Wrapper{Command: command, Args: args}, nil
}

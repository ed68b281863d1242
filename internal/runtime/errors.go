// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/boson-compat/boson/internal/config"
)

var (
	// ErrToolNotConfigured is returned when a DeferProton title has no
	// compatibility tool directory.
	ErrToolNotConfigured = errors.New("compatibility tool not configured")

	// ErrSpawn is the sentinel error wrapped by SpawnError.
	ErrSpawn = errors.New("failed to start title")

	// ErrNonZeroExit is the sentinel error wrapped by NonZeroExitError.
	ErrNonZeroExit = errors.New("title exited with non-zero status")
)

type (
	// ToolNotConfiguredError is returned when DeferProton is selected without
	// a compat_tool_dir. It wraps ErrToolNotConfigured.
	ToolNotConfiguredError struct {
		TitleID config.TitleID
	}

	// SpawnError is returned when the operating system refuses to create the
	// child process. It wraps ErrSpawn and the underlying OS error.
	SpawnError struct {
		Command string
		Err     error
	}

	// NonZeroExitError reports a child that ran and exited unsuccessfully.
	// It wraps ErrNonZeroExit.
	NonZeroExitError struct {
		Code ExitCode
		// Signal is set when the child was killed by a signal.
		Signal syscall.Signal
	}
)

// Error implements the error interface.
func (e *ToolNotConfiguredError) Error() string {
	return fmt.Sprintf("title %d uses DeferProton but no compat_tool_dir is configured", e.TitleID)
}

// Unwrap returns ErrToolNotConfigured so callers can use errors.Is for programmatic detection.
func (e *ToolNotConfiguredError) Unwrap() error { return ErrToolNotConfigured }

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

// Unwrap returns ErrSpawn and the underlying cause.
func (e *SpawnError) Unwrap() []error { return []error{ErrSpawn, e.Err} }

// Error implements the error interface.
func (e *NonZeroExitError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "title exited with status %d", e.Code)
	if e.Signal != 0 {
		fmt.Fprintf(&b, " (%s)", e.Signal)
	}
	return b.String()
}

// Unwrap returns ErrNonZeroExit so callers can use errors.Is for programmatic detection.
func (e *NonZeroExitError) Unwrap() error { return ErrNonZeroExit }

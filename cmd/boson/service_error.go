// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/boson-compat/boson/internal/compattool"
	"github.com/boson-compat/boson/internal/issue"
	"github.com/boson-compat/boson/internal/pathsearch"
	"github.com/boson-compat/boson/internal/runtime"
	"github.com/boson-compat/boson/internal/steamenv"
)

// issueStyle is the glamour style used for catalog entries.
var issueStyle = "dark"

// ServiceError is a classified launch failure ready for the CLI to print.
// Always create via newServiceError.
type ServiceError struct {
	// Err is the classified error (must not be nil).
	Err *issue.ActionableError
	// StyledMessage is the pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err *issue.ActionableError, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyLaunchError maps launch failures to issue catalog IDs and
// suggestions, and pre-renders the styled error line.
func classifyLaunchError(err error, installPath string, verbose bool) *ServiceError {
	ctx := issue.NewErrorContext().WithOperation("launch title").WithResource(installPath)

	switch {
	case errors.Is(err, steamenv.ErrAppIDUnset):
		ctx.WithIssue(issue.AppIdUnsetId).
			WithSuggestion("pass --title-id when launching outside Steam")
	case errors.Is(err, pathsearch.ErrPayloadNotFound):
		ctx.WithIssue(issue.PayloadNotFoundId).
			WithSuggestion("set BOSON_LOAD_PATH to the payload relative to the install directory")
	case errors.Is(err, runtime.ErrToolNotConfigured):
		ctx.WithIssue(issue.ToolNotConfiguredId).
			WithSuggestion("set compat_tool_dir for the title or in the [default] table")
	case errors.Is(err, compattool.ErrToolNotFound):
		ctx.WithIssue(issue.ToolNotFoundId).
			WithSuggestion("install the tool or fix compat_tool_dir")
	case errors.Is(err, compattool.ErrLibraryPathsUnset):
		ctx.WithIssue(issue.LibraryPathsUnsetId)
	case errors.Is(err, runtime.ErrSpawn):
		ctx.WithIssue(issue.SpawnFailedId).
			WithSuggestion("run with --verbose to see the composed command")
	}

	ae := ctx.Wrap(err).Build()
	styled := fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(ae, verbose))
	return newServiceError(ae, styled)
}

// renderServiceError prints any styled message first, then the optional
// issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	renderCatalogIssue(stderr, svcErr.Err.CatalogIssue())
}

// renderCatalogIssue prints a catalog entry; nil prints nothing.
func renderCatalogIssue(w io.Writer, entry *issue.Issue) {
	if entry == nil {
		return
	}
	rendered, err := entry.Render(issueStyle)
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", entry.Id(), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

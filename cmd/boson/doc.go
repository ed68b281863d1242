// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for boson.
//
// Steam invokes boson as a compatibility tool with a verb (run or
// waitforexitandrun), the title's install path and the title's own
// arguments. The remaining commands are diagnostics for inspecting the
// resolved per-title configuration.
package cmd

// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Catalogued launch failures additionally point at an
// Issue, a Markdown page rendered with glamour when the CLI reports the error.
package issue

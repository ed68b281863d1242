// SPDX-License-Identifier: MPL-2.0

package testutil

import "testing"

// SetHomeDir sets HOME and returns a cleanup function to restore the original value.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
//	    // Test code that expands "~"...
//	}
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, "HOME", dir)
}

// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestNonZeroExitError_Message(t *testing.T) {
	t.Parallel()

	if got := (&NonZeroExitError{Code: 3}).Error(); got != "title exited with status 3" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&NonZeroExitError{Code: 137, Signal: 9}).Error(); got != "title exited with status 137 (killed)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNonZeroExitError_Is(t *testing.T) {
	t.Parallel()

	var err error = &NonZeroExitError{Code: 1}
	if !errors.Is(err, ErrNonZeroExit) {
		t.Error("NonZeroExitError should match ErrNonZeroExit")
	}
	if errors.Is(err, ErrSpawn) {
		t.Error("NonZeroExitError must not match ErrSpawn")
	}
}

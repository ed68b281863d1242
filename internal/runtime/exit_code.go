// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"strconv"
	"syscall"
)

// signalExitBase is added to a signal number to form the exit code of a
// process killed by that signal, following POSIX shell convention.
const signalExitBase = 128

// ExitCode is a process exit status. A title killed by a signal reports
// 128 plus the signal number.
type ExitCode int

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// exitCodeOf maps a finished process to its exit code. A process killed by a
// signal reports 128 plus the signal number.
func exitCodeOf(state *os.ProcessState) (code ExitCode, signal syscall.Signal) {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitCode(signalExitBase + int(ws.Signal())), ws.Signal()
	}
	return ExitCode(state.ExitCode()), 0
}

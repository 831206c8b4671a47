//go:build !windows

package app

import (
	"os"
	"syscall"
)

func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

// resumeAfterStop restores the screen after the process is continued by
// shell job control.
func (a *App) resumeAfterStop() bool {
	if err := a.screen.Resume(); err != nil {
		return false
	}
	// Mouse reporting is reset by the stop, turn it back on.
	a.screen.EnableMouse()
	a.screen.Sync()
	return true
}

//go:build windows

package app

import "os"

// On Windows there is no SIGCONT; job-control resume never happens.
func contSignals() []os.Signal {
	return nil
}

func (a *App) resumeAfterStop() bool {
	return false
}

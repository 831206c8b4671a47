//go:build !windows

package shellsetup

// DetectParentShellName is only meaningful on Windows, where SHELL is
// usually unset. Elsewhere detection relies on the environment.
func DetectParentShellName() string {
	return ""
}

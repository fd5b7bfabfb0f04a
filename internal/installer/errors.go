package installer

import (
	"errors"
	"fmt"
)

// Sentinel errors following Dave Cheney's principle: define errors as values
var (
	ErrUnsupportedPlatform = errors.New("only Linux hosts are supported; install EnergyPlus manually on other systems")
	ErrPatternMismatch     = errors.New("URL does not match the EnergyPlus installer filename pattern")
	ErrNotDownloadable     = errors.New("URL does not point to a downloadable binary artifact")
	ErrLockTimeout         = errors.New("timed out waiting for the install lock")
)

// DownloadError wraps a network failure while fetching the installer script.
type DownloadError struct {
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download installer from %s: %v", e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// ScriptError reports a scripted install session that deviated from the
// expected prompt sequence or exceeded a per-step timeout.
type ScriptError struct {
	Step  string
	Cause error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("install script failed at step %q: %v", e.Step, e.Cause)
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

const lockFileName = ".lock"

// Defaults used when Options leaves the corresponding field zero.
const (
	DefaultLockTimeout = 10 * time.Minute
	// DefaultStepTimeout bounds each expect step of the scripted install,
	// including the final wait while the archive extracts.
	DefaultStepTimeout = 5 * time.Minute

	lockRetryInterval = 250 * time.Millisecond
)

// hostOS is a variable so tests can exercise the platform gate.
var hostOS = runtime.GOOS

// Options configures EnsureRoot.
type Options struct {
	// TargetDir is where EnergyPlus distributions are installed, as
	// TargetDir/EnergyPlus-<version-with-dashes>. Defaults to a per-user
	// data directory.
	TargetDir string

	// InstallerCache retains the downloaded installer script between
	// runs. When empty, a temporary directory is used and discarded.
	InstallerCache string

	LockTimeout time.Duration
	StepTimeout time.Duration

	Logger *slog.Logger
}

// DefaultTargetDir returns the per-user data directory used when no
// target folder is configured.
func DefaultTargetDir() string {
	return filepath.Join(xdg.DataHome, "epwrap")
}

// EnsureRoot makes sure the EnergyPlus distribution named by the installer
// URL is installed under the target folder, downloading and running the
// installer when it is missing. It returns the absolute path of the
// installation root in every successful case, including when the
// distribution was already present.
//
// Concurrent calls targeting the same folder, including from other
// processes, are serialized through a lock file inside it.
func EnsureRoot(ctx context.Context, url string, opts Options) (string, error) {
	if hostOS != "linux" {
		return "", fmt.Errorf("%w (host: %s)", ErrUnsupportedPlatform, hostOS)
	}

	info, err := ParseInstallerURL(url)
	if err != nil {
		return "", err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	target := opts.TargetDir
	if target == "" {
		target = DefaultTargetDir()
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("failed to create target folder: %w", err)
	}

	lockTimeout := opts.LockTimeout
	if lockTimeout == 0 {
		lockTimeout = DefaultLockTimeout
	}
	lock := flock.New(filepath.Join(target, lockFileName))
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, lockRetryInterval)
	if err != nil || !locked {
		return "", fmt.Errorf("%w: %s", ErrLockTimeout, lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	expected := filepath.Join(target, RootDirName(info.Version))
	if nonEmptyDir(expected) {
		logger.Debug("EnergyPlus already installed", "version", info.Version, "root", expected)
		return filepath.Abs(expected)
	}
	// A present-but-empty directory is a leftover from an interrupted
	// install; start over.
	if err := os.RemoveAll(expected); err != nil {
		return "", fmt.Errorf("failed to remove partial install: %w", err)
	}

	cache := opts.InstallerCache
	if cache == "" {
		tmp, err := os.MkdirTemp("", "epwrap-installer-")
		if err != nil {
			return "", fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		cache = tmp
	} else if err := os.MkdirAll(cache, 0755); err != nil {
		return "", fmt.Errorf("failed to create installer cache: %w", err)
	}

	script := filepath.Join(cache, info.Filename)
	if _, err := os.Stat(script); err != nil {
		logger.Info("downloading EnergyPlus installer",
			"version", info.Version, "revision", info.Revision, "url", url)
		if err := checkDownloadable(url); err != nil {
			return "", err
		}
		if err := downloadInstaller(url, script); err != nil {
			return "", err
		}
	}

	stepTimeout := opts.StepTimeout
	if stepTimeout == 0 {
		stepTimeout = DefaultStepTimeout
	}
	logger.Info("running EnergyPlus installer", "script", script, "target", target)
	if err := runInstallScript(script, target, stepTimeout); err != nil {
		return "", err
	}

	logger.Info("EnergyPlus installed", "version", info.Version, "root", expected)
	return filepath.Abs(expected)
}

// nonEmptyDir reports whether path is a directory with at least one entry.
func nonEmptyDir(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}

// Package installer ensures that an EnergyPlus distribution matching a
// requested installer URL exists locally, downloading and running the
// self-extracting installer script when it does not.
package installer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Installer filenames look like
// EnergyPlus-9.4.0-998c4b761e-Linux-Ubuntu18.04-x86_64.sh:
// version, build revision, then a free-form platform tag.
var filenamePattern = regexp.MustCompile(
	`.*?(EnergyPlus-(\d+\.\d+\.\d+)-(\w+)-(.*?)\.sh)$`)

// FilenameInfo describes an installer artifact parsed from its URL.
type FilenameInfo struct {
	Filename string
	Version  string
	Revision string
	Platform string
}

// ParseInstallerURL extracts the installer descriptor from a download URL.
// Returns ErrPatternMismatch if the URL does not follow the official
// EnergyPlus installer naming scheme.
func ParseInstallerURL(url string) (FilenameInfo, error) {
	m := filenamePattern.FindStringSubmatch(url)
	if m == nil {
		return FilenameInfo{}, fmt.Errorf("%w: %s", ErrPatternMismatch, url)
	}

	info := FilenameInfo{
		Filename: m[1],
		Version:  m[2],
		Revision: m[3],
		Platform: m[4],
	}

	if _, err := semver.NewVersion(info.Version); err != nil {
		return FilenameInfo{}, fmt.Errorf("%w: invalid version %q", ErrPatternMismatch, info.Version)
	}

	return info, nil
}

// RootDirName returns the directory name the installer creates for a
// version, e.g. "9.4.0" -> "EnergyPlus-9-4-0".
func RootDirName(version string) string {
	return "EnergyPlus-" + strings.ReplaceAll(version, ".", "-")
}

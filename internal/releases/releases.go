// Package releases resolves EnergyPlus versions to official installer
// assets published on the NREL/EnergyPlus GitHub releases page.
package releases

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-github/v57/github"
)

// DefaultRepository is where the engine's installers are published.
const DefaultRepository = "NREL/EnergyPlus"

// Sentinel errors for release operations.
var (
	ErrInvalidRepo     = errors.New("repository must be in format 'owner/repo'")
	ErrReleaseNotFound = errors.New("release not found")
	ErrAssetNotFound   = errors.New("no Linux installer asset in release")
)

// linuxInstaller matches the shell-installer asset name for Linux hosts.
var linuxInstaller = regexp.MustCompile(`^EnergyPlus-\d+\.\d+\.\d+-\w+-Linux-.*\.sh$`)

// Client queries GitHub releases for installer assets.
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient creates a release client for the given "owner/repo". The
// token is optional: public release metadata is readable anonymously,
// but a token raises the API rate limit.
func NewClient(token, repository string) (*Client, error) {
	owner, repo, err := parseRepository(repository)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{client: client, owner: owner, repo: repo}, nil
}

// ResolveInstallerURL returns the download URL of the Linux installer
// asset for a version like "9.4.0". Returns ErrReleaseNotFound when no
// release carries that tag and ErrAssetNotFound when the release has no
// Linux shell installer.
func (c *Client) ResolveInstallerURL(ctx context.Context, version string) (string, error) {
	if _, err := semver.NewVersion(version); err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}

	release, resp, err := c.client.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, "v"+version)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return "", fmt.Errorf("%w: v%s", ErrReleaseNotFound, version)
		}
		return "", fmt.Errorf("failed to get release v%s: %w", version, err)
	}

	for _, asset := range release.Assets {
		if MatchesInstallerAsset(asset.GetName()) {
			return asset.GetBrowserDownloadURL(), nil
		}
	}
	return "", fmt.Errorf("%w: v%s", ErrAssetNotFound, version)
}

// Versions lists released engine versions in ascending semver order.
// Tags that are not plain versions (pre-releases, bugfix tags) are
// skipped.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}
	var versions []*semver.Version
	for {
		releases, resp, err := c.client.Repositories.ListReleases(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list releases: %w", err)
		}
		for _, release := range releases {
			tag := strings.TrimPrefix(release.GetTagName(), "v")
			v, err := semver.StrictNewVersion(tag)
			if err != nil || v.Prerelease() != "" || v.Metadata() != "" {
				continue
			}
			versions = append(versions, v)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	sort.Sort(semver.Collection(versions))

	result := make([]string, len(versions))
	for i, v := range versions {
		result[i] = v.String()
	}
	return result, nil
}

// MatchesInstallerAsset reports whether an asset name is a Linux shell
// installer.
func MatchesInstallerAsset(name string) bool {
	return linuxInstaller.MatchString(name)
}

// parseRepository splits "owner/repo" into its parts.
func parseRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepo, repository)
	}
	return parts[0], parts[1], nil
}

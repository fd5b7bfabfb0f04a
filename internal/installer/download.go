package installer

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// HTTPTimeout bounds every HTTP request made by this package, in seconds.
const HTTPTimeout = 300

var httpClient = &http.Client{Timeout: HTTPTimeout * time.Second}

// checkDownloadable issues a HEAD request and inspects the content-type to
// make sure the URL serves a binary artifact rather than an HTML or text
// page (a 404 page, a download listing). Returns ErrNotDownloadable when
// the response looks like a page.
func checkDownloadable(url string) error {
	resp, err := httpClient.Head(url)
	if err != nil {
		return &DownloadError{URL: url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if contentType == "" {
		return fmt.Errorf("%w: no content-type header", ErrNotDownloadable)
	}
	if strings.Contains(contentType, "text") || strings.Contains(contentType, "html") {
		return fmt.Errorf("%w: content-type %q", ErrNotDownloadable, contentType)
	}

	return nil
}

// downloadInstaller fetches the installer script at url and writes it to
// path. The downloadability of the URL must have been checked first.
//
// The body is written to a temporary file next to path and renamed into
// place only once the transfer completed: the presence of path is what
// marks the script as cached, so a truncated transfer must never leave a
// file there.
func downloadInstaller(url, path string) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return &DownloadError{URL: url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, Cause: fmt.Errorf("bad status: %s", resp.Status)}
	}

	out, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create installer file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return &DownloadError{URL: url, Cause: err}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return fmt.Errorf("failed to write installer file: %w", err)
	}

	if err := os.Rename(out.Name(), path); err != nil {
		_ = os.Remove(out.Name())
		return fmt.Errorf("failed to move installer into place: %w", err)
	}
	return nil
}

// Package godl addresses archives on the official Go download host. The
// host serves flat files, so the only work is composing the platform
// specific archive name onto the base URL.
package godl

import (
	"strings"

	"duckup/internal/platform"
)

// DefaultBaseURL is the production Go download host.
const DefaultBaseURL = "https://go.dev/dl"

// Host points at a Go download mirror. Tests point it at a local server.
type Host struct {
	BaseURL string
}

// ArchiveURL returns the download URL for the given Go version on the given
// platform. Unsupported platforms fail with *platform.UnsupportedError.
func (h *Host) ArchiveURL(version, goos, goarch string) (string, error) {
	name, err := platform.RuntimeArchiveName(version, goos, goarch)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(h.BaseURL, "/") + "/" + name, nil
}

// Package github is a minimal client for the release surface of a single
// GitHub repository: resolving the newest tag, fetching a release by tag,
// and addressing source archives. It speaks only the few endpoints the
// toolchain lifecycle needs and never retries.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"duckup/internal/netutil"
)

// ErrNoReleases reports that the repository has published no releases at
// all, so there is no tag to resolve "latest" to.
var ErrNoReleases = errors.New("repository has no releases")

// Release is the subset of the GitHub release object the installer needs.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Asset returns the named asset and whether it exists on the release.
func (r *Release) Asset(name string) (Asset, bool) {
	for _, asset := range r.Assets {
		if asset.Name == name {
			return asset, true
		}
	}
	return Asset{}, false
}

// Client talks to one repository. BaseURL points at the REST API and
// ArchiveHost at the code browsing host that serves tag archives; tests
// point both at a local server.
type Client struct {
	BaseURL     string
	ArchiveHost string
	Owner       string
	Repo        string
	UserAgent   string
	HTTPClient  *http.Client
}

// LatestTag resolves the repository's newest release tag. The dedicated
// latest endpoint 404s for repositories that only carry pre-releases, so a
// failure there falls through to the first entry of the release list.
func (c *Client) LatestTag(ctx context.Context) (string, error) {
	var release Release
	err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.BaseURL, c.Owner, c.Repo), &release)
	if err == nil && release.TagName != "" {
		return release.TagName, nil
	}

	var releases []Release
	if listErr := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/releases?per_page=1", c.BaseURL, c.Owner, c.Repo), &releases); listErr != nil {
		return "", listErr
	}
	if len(releases) == 0 || releases[0].TagName == "" {
		return "", ErrNoReleases
	}
	return releases[0].TagName, nil
}

// ReleaseByTag fetches the release published under tag. A missing release
// surfaces as a *netutil.StatusError with a 404 code; callers translate
// that into their own vocabulary.
func (c *Client) ReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	var release Release
	if err := c.getJSON(ctx, fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", c.BaseURL, c.Owner, c.Repo, tag), &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// SourceArchiveURL returns the tar.gz archive URL for the source tree at
// tag.
func (c *Client) SourceArchiveURL(tag string) string {
	return fmt.Sprintf("%s/%s/%s/archive/refs/tags/%s.tar.gz", c.ArchiveHost, c.Owner, c.Repo, tag)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	resp, err := netutil.Get(ctx, c.HTTPClient, url, c.UserAgent)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

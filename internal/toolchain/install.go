package toolchain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"

	"duckup/internal/fsutil"
	"duckup/internal/netutil"
	"duckup/internal/platform"
)

// InstallResult describes the outcome of an install request.
type InstallResult struct {
	Tag              string `json:"tag"`
	Path             string `json:"path"`
	AlreadyInstalled bool   `json:"already_installed"`
	SizeBytes        int64  `json:"size_bytes,omitempty"`
}

// Install places the release binary for tag into its per-tag directory.
// An existing directory counts as installed and is left untouched; that
// presence check is the only guard, so a directory from an interrupted
// install also reads as installed.
func (s *Service) Install(ctx context.Context, tag string) (InstallResult, error) {
	res := InstallResult{Tag: tag, Path: s.TagBinary(tag)}

	exists, err := fsutil.DirExists(s.TagDir(tag))
	if err != nil {
		return res, err
	}
	if exists {
		res.AlreadyInstalled = true
		s.Logger.Info().Str("tag", tag).Msg("toolchain already installed")
		return res, nil
	}

	assetName, err := platform.ReleaseAssetName(BinaryName, s.GOOS, s.GOARCH)
	if err != nil {
		return res, err
	}

	release, err := s.Release.ReleaseByTag(ctx, tag)
	if err != nil {
		var statusErr *netutil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return res, &AssetNotFoundError{Tag: tag}
		}
		return res, err
	}

	asset, ok := release.Asset(assetName)
	if !ok {
		return res, &AssetNotFoundError{Tag: tag, Asset: assetName}
	}

	n, err := netutil.DownloadFile(ctx, s.HTTP, asset.BrowserDownloadURL, userAgent, res.Path)
	if err != nil {
		return res, fmt.Errorf("download %s: %w", assetName, err)
	}
	res.SizeBytes = n

	if s.GOOS != "windows" {
		if err := os.Chmod(res.Path, 0o755); err != nil {
			return res, fmt.Errorf("chmod %s: %w", res.Path, err)
		}
	}

	s.Logger.Info().
		Str("tag", tag).
		Str("asset", assetName).
		Str("size", humanize.Bytes(uint64(n))).
		Msg("installed toolchain")
	return res, nil
}

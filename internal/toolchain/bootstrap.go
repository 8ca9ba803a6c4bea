package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"duckup/internal/cache"
	"duckup/internal/fsutil"
	"duckup/internal/netutil"
	"duckup/internal/platform"
	"duckup/pkg/versionfile"
)

// BootstrapResult records what Bootstrap did and reused.
type BootstrapResult struct {
	Tag               string `json:"tag"`
	SourceDir         string `json:"source_dir"`
	SourceCached      bool   `json:"source_cached"`
	GoVersion         string `json:"go_version"`
	GoVersionFallback bool   `json:"go_version_fallback"`
	FallbackReason    string `json:"fallback_reason,omitempty"`
	RuntimeDir        string `json:"runtime_dir"`
	RuntimeCached     bool   `json:"runtime_cached"`
	StdStaged         bool   `json:"std_staged"`
}

// Bootstrap prepares everything a toolchain needs besides its own binary:
// the tag's source tree, the Go runtime that source pins, and the staged
// go-compiler and std trees the compiler reads at build time. Every
// artifact comes from the cache when present. reporter may be nil.
func (s *Service) Bootstrap(ctx context.Context, tag string, reporter StepReporter) (BootstrapResult, error) {
	r := reporterOrNop(reporter)
	res := BootstrapResult{Tag: tag}

	r.StepStart(StepSource, tag+" source tree")
	sourceDir, hit, err := s.EnsureSource(ctx, tag)
	if err != nil {
		return res, err
	}
	res.SourceDir = sourceDir
	res.SourceCached = hit
	r.StepDone(StepSource, cachedOrDownloaded(hit))

	version, reason := s.RuntimeVersion(sourceDir)
	res.GoVersion = version
	res.GoVersionFallback = reason != ""
	res.FallbackReason = reason
	detail := "go " + version
	if reason != "" {
		detail += " (fallback)"
	}

	r.StepStart(StepRuntime, detail)
	runtimeDir, hit, err := s.EnsureRuntime(ctx, version)
	if err != nil {
		return res, err
	}
	res.RuntimeDir = runtimeDir
	res.RuntimeCached = hit
	r.StepDone(StepRuntime, detail+", "+cachedOrDownloaded(hit))

	r.StepStart(StepStage, "go-compiler")
	if err := s.StageRuntime(version); err != nil {
		return res, err
	}
	r.StepDone(StepStage, "go "+version+" staged")

	r.StepStart(StepStd, "std library")
	staged, err := s.StageStd(tag)
	if err != nil {
		return res, err
	}
	res.StdStaged = staged
	if staged {
		r.StepDone(StepStd, "staged")
	} else {
		r.StepSkip(StepStd, "absent, kept previous")
	}

	return res, nil
}

func cachedOrDownloaded(hit bool) string {
	if hit {
		return "cached"
	}
	return "downloaded"
}

// EnsureSource makes the source tree for tag available in the cache and
// returns its directory. The hit result is true when the tree was already
// cached.
func (s *Service) EnsureSource(ctx context.Context, tag string) (string, bool, error) {
	archiveURL := s.Release.SourceArchiveURL(tag)

	return s.Cache.Ensure(cache.KindSource, tag, func(scratch string) (string, error) {
		archivePath := filepath.Join(scratch, tag+".tar.gz")
		n, err := netutil.DownloadFile(ctx, s.HTTP, archiveURL, userAgent, archivePath)
		if err != nil {
			return "", fmt.Errorf("download source archive: %w", err)
		}
		s.Logger.Info().
			Str("tag", tag).
			Str("size", humanize.Bytes(uint64(n))).
			Msg("downloaded source archive")

		extractDir := filepath.Join(scratch, "extracted")
		if err := extractTarGz(archivePath, extractDir); err != nil {
			return "", err
		}
		return singleTopDir(extractDir)
	})
}

// RuntimeVersion reads the pinned Go version out of a source tree. A
// missing or unusable manifest is not fatal: the fallback version applies
// and the returned reason says why; reason is empty when the manifest was
// used.
func (s *Service) RuntimeVersion(sourceDir string) (version, reason string) {
	info, err := versionfile.Read(filepath.Join(sourceDir, versionfile.Name))
	if err != nil {
		reason := "source tree has no version manifest"
		var malformed *versionfile.MalformedError
		switch {
		case errors.As(err, &malformed):
			reason = malformed.Reason
		case !errors.Is(err, versionfile.ErrNotFound):
			reason = err.Error()
		}
		s.Logger.Warn().
			Str("fallback", s.FallbackGoVersion).
			Str("reason", reason).
			Msg("using fallback go version")
		return s.FallbackGoVersion, reason
	}

	s.Logger.Info().Str("version", info.Go).Msg("source pins go version")
	return info.Go, ""
}

// EnsureRuntime makes the Go runtime bundle for version available in the
// cache and returns its directory.
func (s *Service) EnsureRuntime(ctx context.Context, version string) (string, bool, error) {
	archiveURL, err := s.Runtime.ArchiveURL(version, s.GOOS, s.GOARCH)
	if err != nil {
		return "", false, err
	}
	archiveName, err := platform.RuntimeArchiveName(version, s.GOOS, s.GOARCH)
	if err != nil {
		return "", false, err
	}

	return s.Cache.Ensure(cache.KindRuntime, version, func(scratch string) (string, error) {
		archivePath := filepath.Join(scratch, archiveName)
		n, err := netutil.DownloadFile(ctx, s.HTTP, archiveURL, userAgent, archivePath)
		if err != nil {
			return "", fmt.Errorf("download go runtime: %w", err)
		}
		s.Logger.Info().
			Str("version", version).
			Str("size", humanize.Bytes(uint64(n))).
			Msg("downloaded go runtime")

		extractDir := filepath.Join(scratch, "extracted")
		if strings.HasSuffix(archiveName, ".zip") {
			err = extractZip(archivePath, extractDir)
		} else {
			err = extractTarGz(archivePath, extractDir)
		}
		if err != nil {
			return "", err
		}

		// Official bundles unpack to a single go/ tree.
		bundle := filepath.Join(extractDir, "go")
		exists, err := fsutil.DirExists(bundle)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("go runtime archive missing top-level go directory")
		}
		return bundle, nil
	})
}

// StageRuntime copies the cached runtime bundle for version into the
// staging root under go-compiler, replacing whatever was staged before.
func (s *Service) StageRuntime(version string) error {
	cached := s.Cache.Path(cache.KindRuntime, version)
	if err := s.stageTree(cached, stagedRuntimeDir); err != nil {
		return err
	}
	s.Logger.Info().Str("version", version).Msg("staged go runtime")
	return nil
}

// StageStd swaps the source tree's std library for tag into the staging
// root. Source trees without a std directory leave the previous staging
// untouched; the false result lets callers surface the warning.
func (s *Service) StageStd(tag string) (bool, error) {
	source := filepath.Join(s.Cache.Path(cache.KindSource, tag), stagedStdDir)
	exists, err := fsutil.DirExists(source)
	if err != nil {
		return false, err
	}
	if !exists {
		s.Logger.Warn().Str("tag", tag).Msg("source tree has no std directory, keeping previous staging")
		return false, nil
	}
	if err := s.stageTree(source, stagedStdDir); err != nil {
		return false, err
	}
	s.Logger.Info().Str("tag", tag).Msg("staged std library")
	return true, nil
}

// stageTree copies src into the staging root under name. The copy lands in
// a temp sibling first and is swapped in whole, so the compiler never sees
// a half-written tree at the staged path.
func (s *Service) stageTree(src, name string) error {
	if err := os.MkdirAll(s.Dirs.StageDir, 0o755); err != nil {
		return fmt.Errorf("prepare staging root: %w", err)
	}

	tmp, err := os.MkdirTemp(s.Dirs.StageDir, name+"-next-")
	if err != nil {
		return fmt.Errorf("create staging temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := fsutil.CopyDir(src, tmp); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	return fsutil.SwapDir(tmp, filepath.Join(s.Dirs.StageDir, name))
}

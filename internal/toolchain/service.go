// Package toolchain implements the lifecycle of duck compiler toolchains:
// resolving release tags, bootstrapping the Go runtime and staged stdlib a
// toolchain builds against, installing per-tag binaries, switching the
// active link, and listing what is installed.
package toolchain

import (
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"

	"duckup/internal/cache"
	"duckup/internal/config"
	"duckup/internal/github"
	"duckup/internal/godl"
	"duckup/internal/paths"
)

// BinaryName is the compiler driver binary every toolchain ships. The
// per-tag install file and the active link both carry this name.
const BinaryName = "dargo"

const userAgent = "duckup"

// Names of the trees inside the staging root the compiler reads from.
const (
	stagedRuntimeDir = "go-compiler"
	stagedStdDir     = "std"
)

// Service ties the stores and hosts together. The zero Logger is a no-op;
// GOOS and GOARCH select the platform tables and default to the host.
type Service struct {
	Dirs    paths.Dirs
	Release *github.Client
	Runtime *godl.Host
	Cache   *cache.Cache
	HTTP    *http.Client
	Logger  zerolog.Logger

	FallbackGoVersion string
	GOOS              string
	GOARCH            string
}

// New builds a Service for the host platform from resolved directories and
// configuration.
func New(dirs paths.Dirs, cfg config.Config) *Service {
	return &Service{
		Dirs: dirs,
		Release: &github.Client{
			BaseURL:     cfg.ReleaseAPI,
			ArchiveHost: cfg.ArchiveHost,
			Owner:       cfg.Owner,
			Repo:        cfg.Repo,
			UserAgent:   userAgent,
		},
		Runtime:           &godl.Host{BaseURL: cfg.RuntimeHost},
		Cache:             &cache.Cache{Root: dirs.CacheDir},
		Logger:            zerolog.Nop(),
		FallbackGoVersion: cfg.FallbackGoVersion,
		GOOS:              runtime.GOOS,
		GOARCH:            runtime.GOARCH,
	}
}

// TagDir returns the per-tag install directory.
func (s *Service) TagDir(tag string) string {
	return filepath.Join(s.Dirs.ToolchainsDir, tag)
}

// TagBinary returns the installed binary path for tag.
func (s *Service) TagBinary(tag string) string {
	return filepath.Join(s.TagDir(tag), BinaryName)
}

// ActivePath returns where the active link lives.
func (s *Service) ActivePath() string {
	return filepath.Join(s.Dirs.BinDir, BinaryName)
}

// StepReporter observes lifecycle steps as they run. The CLI adapts this to
// its progress table or status line; a nil reporter is allowed everywhere
// one is accepted. StepSkip reports a step that finished without doing its
// usual work, like std staging when the source tree carries none.
type StepReporter interface {
	StepStart(step, detail string)
	StepDone(step, detail string)
	StepSkip(step, detail string)
}

// Step names passed to StepReporter.
const (
	StepSource  = "source"
	StepRuntime = "runtime"
	StepStage   = "stage"
	StepStd     = "std"
)

type nopReporter struct{}

func (nopReporter) StepStart(string, string) {}
func (nopReporter) StepDone(string, string)  {}
func (nopReporter) StepSkip(string, string)  {}

func reporterOrNop(r StepReporter) StepReporter {
	if r == nil {
		return nopReporter{}
	}
	return r
}

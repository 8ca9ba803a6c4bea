package toolchain

import (
	"fmt"
	"os"

	"duckup/internal/fsutil"
)

// Activate points the active link at tag's installed binary. The new link
// is built next to the old one and renamed over it, so a concurrent caller
// of the active binary always resolves to one version or the other. An
// uninstalled tag fails with *NotInstalledError before anything changes.
func (s *Service) Activate(tag string) error {
	source := s.TagBinary(tag)
	ok, err := fsutil.FileExists(source)
	if err != nil {
		return err
	}
	if !ok {
		return &NotInstalledError{Tag: tag}
	}

	if err := os.MkdirAll(s.Dirs.BinDir, 0o755); err != nil {
		return fmt.Errorf("prepare bin directory: %w", err)
	}

	active := s.ActivePath()
	next := active + ".next"
	if err := os.Remove(next); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear stale link: %w", err)
	}

	// Hard links keep the store and the active entry as one file; when the
	// bin directory sits on another filesystem a full copy stands in.
	if err := os.Link(source, next); err != nil {
		if err := fsutil.CopyFile(source, next); err != nil {
			return fmt.Errorf("copy %s: %w", source, err)
		}
	}

	if err := os.Rename(next, active); err != nil {
		os.Remove(next)
		return fmt.Errorf("activate %s: %w", tag, err)
	}

	s.Logger.Info().Str("tag", tag).Str("path", active).Msg("activated toolchain")
	return nil
}

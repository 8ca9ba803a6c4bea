package toolchain

import (
	"fmt"
	"os"
	"sort"
)

// Installed describes one entry in the toolchains store.
type Installed struct {
	Tag    string `json:"version"`
	Active bool   `json:"active"`
}

// List returns every installed toolchain in tag order, marking the entry
// the active link resolves to. A store that does not exist yet lists as
// empty rather than failing.
func (s *Service) List() ([]Installed, error) {
	entries, err := os.ReadDir(s.Dirs.ToolchainsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read toolchains store: %w", err)
	}

	installed := make([]Installed, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tag := entry.Name()
		active, err := sameFile(s.TagBinary(tag), s.ActivePath())
		if err != nil {
			return nil, err
		}
		installed = append(installed, Installed{Tag: tag, Active: active})
	}

	sort.Slice(installed, func(i, j int) bool {
		return installed[i].Tag < installed[j].Tag
	})
	return installed, nil
}

// Active returns the tag the active link points at, or empty when nothing
// is active.
func (s *Service) Active() (string, error) {
	installed, err := s.List()
	if err != nil {
		return "", err
	}
	for _, entry := range installed {
		if entry.Active {
			return entry.Tag, nil
		}
	}
	return "", nil
}

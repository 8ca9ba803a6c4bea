// Package cache stores expensive-to-produce directory trees under stable
// keys. An entry is a plain directory; its existence is the entire cache
// contract. Producers work in a scratch directory and the finished tree is
// promoted into place with a rename, so a crashed or failed producer never
// leaves a half-populated entry behind.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"duckup/internal/fsutil"
)

// Kind partitions the cache by artifact family.
type Kind string

const (
	// KindSource holds compiler source trees keyed by release tag.
	KindSource Kind = "source"
	// KindRuntime holds unpacked Go runtimes keyed by version.
	KindRuntime Kind = "go"
)

// Cache is a directory-per-entry store rooted at a single path.
type Cache struct {
	Root string
}

// Path returns where the entry for (kind, key) lives, whether or not it
// exists yet.
func (c *Cache) Path(kind Kind, key string) string {
	return filepath.Join(c.Root, string(kind), key)
}

// Ensure returns the entry directory for (kind, key), running produce to
// populate it on a miss. produce receives a private scratch directory and
// returns the path of the finished tree inside it; Ensure promotes that
// tree into the entry slot and cleans the scratch up. The hit result is
// true when the entry already existed and produce never ran.
func (c *Cache) Ensure(kind Kind, key string, produce func(scratch string) (string, error)) (path string, hit bool, err error) {
	target := c.Path(kind, key)

	exists, err := fsutil.DirExists(target)
	if err != nil {
		return "", false, err
	}
	if exists {
		return target, true, nil
	}

	if err := os.MkdirAll(c.Root, 0o755); err != nil {
		return "", false, fmt.Errorf("prepare cache root: %w", err)
	}
	scratch, err := os.MkdirTemp(c.Root, "scratch-")
	if err != nil {
		return "", false, fmt.Errorf("create cache scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	result, err := produce(scratch)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(result); err != nil {
		return "", false, fmt.Errorf("producer result missing: %w", err)
	}

	// Another process may have filled the slot while produce ran; its
	// entry is as good as ours.
	exists, err = fsutil.DirExists(target)
	if err != nil {
		return "", false, err
	}
	if exists {
		return target, true, nil
	}

	if err := fsutil.MoveDir(result, target); err != nil {
		return "", false, fmt.Errorf("promote cache entry %s/%s: %w", kind, key, err)
	}
	return target, false, nil
}

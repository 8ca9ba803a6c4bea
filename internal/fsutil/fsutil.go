// Package fsutil provides the filesystem primitives the toolchain lifecycle
// is built from: existence probes, mode-preserving copies, move with
// cross-filesystem fallback, and directory swapping that never leaves the
// target path absent.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// CopyFile copies src to dst, creating parent directories as needed. The
// destination keeps the source's permission bits, so copied executables stay
// executable.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dest, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}

// CopyDir recursively copies the tree at src into dst, preserving file
// permission bits. Symlinks and other non-regular entries are skipped.
func CopyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if err := CopyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

// MoveDir relocates the tree at src to dst. It prefers a rename and falls
// back to a recursive copy plus cleanup when the rename fails, e.g. across
// filesystems.
func MoveDir(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("prepare parent of %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyDir(src, dst); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("clean up %s: %w", src, err)
	}
	return nil
}

// SwapDir replaces target with the fully populated newDir. The previous
// target is renamed aside before newDir is renamed in, so target is never a
// partially written tree; the window with no target at all is a single
// rename, not a full copy. newDir must live on the same filesystem as
// target (callers stage it under the same parent).
func SwapDir(newDir, target string) error {
	exists, err := DirExists(target)
	if err != nil {
		return err
	}

	if !exists {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("prepare parent of %s: %w", target, err)
		}
		if err := os.Rename(newDir, target); err != nil {
			return fmt.Errorf("install %s: %w", target, err)
		}
		return nil
	}

	previous := target + ".previous"
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("clear stale swap dir: %w", err)
	}
	if err := os.Rename(target, previous); err != nil {
		return fmt.Errorf("set aside %s: %w", target, err)
	}
	if err := os.Rename(newDir, target); err != nil {
		// Put the previous tree back so the target does not vanish.
		if restoreErr := os.Rename(previous, target); restoreErr != nil {
			return errors.Join(
				fmt.Errorf("install %s: %w", target, err),
				fmt.Errorf("restore previous tree: %w", restoreErr),
			)
		}
		return fmt.Errorf("install %s: %w", target, err)
	}
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("remove previous tree: %w", err)
	}
	return nil
}

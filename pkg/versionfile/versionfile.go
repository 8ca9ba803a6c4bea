// Package versionfile reads the duck-version-info.json manifest that a
// compiler source tree uses to pin the Go runtime it builds against.
//
// The file is a small JSON object:
//
//	{"go": "1.25.0"}
//
// Callers decide how strict to be: a missing file and a malformed file are
// distinct, typed conditions so the bootstrap flow can fall back to a default
// runtime instead of failing the install.
package versionfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// Name is the manifest filename looked up at the root of a source tree.
const Name = "duck-version-info.json"

// ErrNotFound reports that the source tree carries no version manifest.
var ErrNotFound = errors.New("version manifest not found")

// MalformedError reports a manifest that exists but cannot be trusted:
// invalid JSON, a missing go field, or a version string that does not parse.
type MalformedError struct {
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed version manifest %s: %s", e.Path, e.Reason)
}

// Info is the parsed manifest. Go holds the runtime version exactly as the
// manifest spelled it.
type Info struct {
	Go string `json:"go"`
}

// Read loads and validates the manifest at path. A missing file yields
// ErrNotFound; anything unparseable yields a *MalformedError.
func Read(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, ErrNotFound
		}
		return Info{}, fmt.Errorf("read version manifest: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, &MalformedError{Path: path, Reason: err.Error()}
	}

	version := strings.TrimSpace(info.Go)
	if version == "" {
		return Info{}, &MalformedError{Path: path, Reason: "missing go field"}
	}
	if !validVersion(version) {
		return Info{}, &MalformedError{Path: path, Reason: fmt.Sprintf("unparseable go version %q", version)}
	}

	info.Go = version
	return info, nil
}

// validVersion accepts full semver strings and the MAJOR.MINOR shorthand Go
// uses for .0 releases.
func validVersion(v string) bool {
	if _, err := semver.NewVersion(v); err == nil {
		return true
	}
	_, err := semver.NewVersion(v + ".0")
	return err == nil
}

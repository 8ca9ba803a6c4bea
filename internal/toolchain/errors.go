package toolchain

import "fmt"

// ResolutionError reports that the symbolic latest version could not be
// mapped to a concrete release tag.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve latest release: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// AssetNotFoundError reports that a release, or the platform asset on it,
// does not exist. Asset is empty when the release itself is missing.
type AssetNotFoundError struct {
	Tag   string
	Asset string
}

func (e *AssetNotFoundError) Error() string {
	if e.Asset == "" {
		return fmt.Sprintf("release %s not found", e.Tag)
	}
	return fmt.Sprintf("release %s has no asset %s", e.Tag, e.Asset)
}

// NotInstalledError reports an activation request for a tag with no
// installed binary. The message names the command that fixes it.
type NotInstalledError struct {
	Tag string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("toolchain %s is not installed; run \"duckup install %s\" first", e.Tag, e.Tag)
}

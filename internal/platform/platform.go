// Package platform maps the running operating system and CPU architecture
// onto the asset naming conventions of the two download hosts. The release
// host (GitHub releases of the duck compiler) and the runtime host (go.dev
// downloads) each use their own vocabulary, so the package keeps two
// independent tables. Both tables are closed: a pair outside them is an
// error, never a guess.
package platform

import "fmt"

// Release-host tokens, keyed by GOOS/GOARCH.
var (
	releaseOS = map[string]string{
		"linux":   "linux",
		"darwin":  "macos",
		"windows": "windows",
	}
	releaseArch = map[string]string{
		"amd64": "x86_64",
		"arm64": "aarch64",
		"arm":   "armv7",
	}
)

// Runtime-host tokens, keyed by GOOS/GOARCH. The runtime host serves more
// architectures than the release host; the tables do not mirror each other.
var (
	runtimeOS = map[string]string{
		"linux":   "linux",
		"darwin":  "darwin",
		"windows": "windows",
	}
	runtimeArch = map[string]string{
		"amd64": "amd64",
		"arm64": "arm64",
		"386":   "386",
		"arm":   "armv6l",
	}
)

// UnsupportedError reports an OS/architecture pair that is absent from the
// naming table consulted.
type UnsupportedError struct {
	OS   string
	Arch string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform %s/%s", e.OS, e.Arch)
}

// ReleaseAssetName returns the release-host asset filename for the given
// binary on the given platform, e.g. "dargo-linux-x86_64" or
// "dargo-windows-x86_64.exe". The ".exe" suffix applies only to windows.
func ReleaseAssetName(binary, goos, goarch string) (string, error) {
	osToken, ok := releaseOS[goos]
	if !ok {
		return "", &UnsupportedError{OS: goos, Arch: goarch}
	}
	archToken, ok := releaseArch[goarch]
	if !ok {
		return "", &UnsupportedError{OS: goos, Arch: goarch}
	}
	ext := ""
	if goos == "windows" {
		ext = ".exe"
	}
	return fmt.Sprintf("%s-%s-%s%s", binary, osToken, archToken, ext), nil
}

// RuntimeArchiveName returns the runtime-host archive filename for the given
// runtime version on the given platform, e.g. "go1.25.0.linux-amd64.tar.gz"
// or "go1.25.0.windows-amd64.zip". Windows bundles are zip archives, all
// others gzip-compressed tarballs.
func RuntimeArchiveName(version, goos, goarch string) (string, error) {
	osToken, ok := runtimeOS[goos]
	if !ok {
		return "", &UnsupportedError{OS: goos, Arch: goarch}
	}
	archToken, ok := runtimeArch[goarch]
	if !ok {
		return "", &UnsupportedError{OS: goos, Arch: goarch}
	}
	ext := "tar.gz"
	if goos == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("go%s.%s-%s.%s", version, osToken, archToken, ext), nil
}

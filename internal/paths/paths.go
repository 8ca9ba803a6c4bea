package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Dirs captures the canonical locations duckup works with.
type Dirs struct {
	DataDir       string
	BinDir        string
	ToolchainsDir string
	CacheDir      string
	StageDir      string
	LogsDir       string
}

// Resolve determines every directory from the environment. DUCKUP_HOME
// overrides the data directory outright; otherwise the XDG conventions
// apply, with platform defaults when the variables are unset. DUCK_HOME
// relocates the staging root the duck compiler itself reads from.
func Resolve() (Dirs, error) {
	data, err := dataDir()
	if err != nil {
		return Dirs{}, err
	}
	bin, err := binDir(data)
	if err != nil {
		return Dirs{}, err
	}
	stage, err := stageDir()
	if err != nil {
		return Dirs{}, err
	}

	return Dirs{
		DataDir:       data,
		BinDir:        bin,
		ToolchainsDir: filepath.Join(data, "toolchains"),
		CacheDir:      filepath.Join(data, "cache"),
		StageDir:      stage,
		LogsDir:       filepath.Join(data, "logs"),
	}, nil
}

func dataDir() (string, error) {
	if dir := os.Getenv("DUCKUP_HOME"); dir != "" {
		return filepath.Clean(dir), nil
	}
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "duckup"), nil
	}
	if runtime.GOOS == "windows" {
		if base := os.Getenv("LocalAppData"); base != "" {
			return filepath.Join(base, "duckup"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, ".local", "share", "duckup"), nil
}

func binDir(dataDir string) (string, error) {
	if dir := os.Getenv("XDG_BIN_HOME"); dir != "" {
		return filepath.Clean(dir), nil
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(dataDir, "bin"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

func stageDir() (string, error) {
	if dir := os.Getenv("DUCK_HOME"); dir != "" {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, ".duck"), nil
}

// EnsureBaseDirs creates the data-directory hierarchy and the bin directory.
// The staging root is created lazily when something is staged into it.
func (d Dirs) EnsureBaseDirs() error {
	dirs := []string{d.DataDir, d.ToolchainsDir, d.CacheDir, d.LogsDir, d.BinDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

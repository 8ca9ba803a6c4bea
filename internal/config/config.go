package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"duckup/internal/fsutil"
)

// Config holds the hosts and fallbacks the toolchain lifecycle talks to.
// Fields left empty in a config file keep their defaults, so a file can
// override a single host without restating the rest.
type Config struct {
	ReleaseAPI        string `json:"release_api" yaml:"release_api" toml:"release_api"`
	ArchiveHost       string `json:"archive_host" yaml:"archive_host" toml:"archive_host"`
	RuntimeHost       string `json:"runtime_host" yaml:"runtime_host" toml:"runtime_host"`
	Owner             string `json:"owner" yaml:"owner" toml:"owner"`
	Repo              string `json:"repo" yaml:"repo" toml:"repo"`
	FallbackGoVersion string `json:"fallback_go_version" yaml:"fallback_go_version" toml:"fallback_go_version"`
}

// Default returns the baseline configuration pointing at the production
// hosts.
func Default() Config {
	return Config{
		ReleaseAPI:        "https://api.github.com",
		ArchiveHost:       "https://github.com",
		RuntimeHost:       "https://go.dev/dl",
		Owner:             "duck-compiler",
		Repo:              "duckc",
		FallbackGoVersion: "1.25.0",
	}
}

// Locate returns the config file under dataDir, probing the supported
// extensions in order. It returns the empty string when no file exists.
func Locate(dataDir string) (string, error) {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml", "config.json"} {
		path := filepath.Join(dataDir, name)
		ok, err := fsutil.FileExists(path)
		if err != nil {
			return "", err
		}
		if ok {
			return path, nil
		}
	}
	return "", nil
}

// Load reads the configuration at path, decoding by file extension, and
// fills omitted fields from Default. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(contents, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(contents, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(contents, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config extension %q", ext)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to the baseline when the file
// omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.ReleaseAPI == "" {
		c.ReleaseAPI = defaults.ReleaseAPI
	}
	if c.ArchiveHost == "" {
		c.ArchiveHost = defaults.ArchiveHost
	}
	if c.RuntimeHost == "" {
		c.RuntimeHost = defaults.RuntimeHost
	}
	if c.Owner == "" {
		c.Owner = defaults.Owner
	}
	if c.Repo == "" {
		c.Repo = defaults.Repo
	}
	if c.FallbackGoVersion == "" {
		c.FallbackGoVersion = defaults.FallbackGoVersion
	}
}

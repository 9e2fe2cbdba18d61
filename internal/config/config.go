package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/prj/internal/storage"
)

// Environment variables that override file settings.
const (
	EnvRoots = "PRJ_ROOTS"
	EnvHome  = storage.EnvHome
	// EnvConfig points at an alternative config file.
	EnvConfig = "PRJ_CONFIG"
)

// Defaults for the [scan] and [recent] sections.
const (
	DefaultCacheTTL      = 5 * time.Minute
	DefaultCacheSize     = 100
	DefaultDetectTimeout = 5 * time.Second
	DefaultRecentSize    = 50
	DefaultRecentMaxAge  = 30 * 24 * time.Hour
	DefaultMergeStrategy = "latest"
	DefaultTopDepth      = 10
)

// ScanConfig controls discovery and the scan cache.
type ScanConfig struct {
	UseCache      bool          `toml:"use_cache"`
	CacheTTL      time.Duration `toml:"cache_ttl"`
	CacheSize     int           `toml:"cache_size"`
	DetectTimeout time.Duration `toml:"detect_timeout"`
	Concurrency   int           `toml:"concurrency"` // 0 = one task per subdirectory
}

// RecentConfig controls the recently used projects list.
type RecentConfig struct {
	MaxSize       int           `toml:"max_size"`
	MaxAge        time.Duration `toml:"max_age"`
	MergeStrategy string        `toml:"merge_strategy"`
}

// TopConfig controls `prj top`.
type TopConfig struct {
	Depth int `toml:"depth"`
}

// Config holds the prj configuration
type Config struct {
	Roots        []string     `toml:"roots"`
	Scan         ScanConfig   `toml:"scan"`
	Recent       RecentConfig `toml:"recent"`
	Top          TopConfig    `toml:"top"`
	RegistryFile string       `toml:"registry_path,omitempty"`
	HistoryFile  string       `toml:"history_path,omitempty"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Scan: ScanConfig{
			UseCache:      true,
			CacheTTL:      DefaultCacheTTL,
			CacheSize:     DefaultCacheSize,
			DetectTimeout: DefaultDetectTimeout,
		},
		Recent: RecentConfig{
			MaxSize:       DefaultRecentSize,
			MaxAge:        DefaultRecentMaxAge,
			MergeStrategy: DefaultMergeStrategy,
		},
		Top: TopConfig{Depth: DefaultTopDepth},
	}
}

// RegistryPath returns the registry file, defaulting to <state dir>/projects.json.
func (c *Config) RegistryPath() (string, error) {
	return statePath(c.RegistryFile, "projects.json")
}

// HistoryPath returns the history file, defaulting to <state dir>/history.json.
func (c *Config) HistoryPath() (string, error) {
	return statePath(c.HistoryFile, "history.json")
}

func statePath(override, name string) (string, error) {
	if override != "" {
		return expandPath(override)
	}
	return storage.StateFile(name)
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location ($PRJ_CONFIG or ~/.config/prj/config.toml).
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "prj", "config.toml"), nil
}

// Load reads the config file and applies environment overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		return cfg, applyEnvOverrides(&cfg)
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	if err := cfg.expand(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// applyEnvOverrides replaces file settings with non-empty env vars.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvRoots); v != "" {
		var roots []string
		for _, r := range filepath.SplitList(v) {
			if r = strings.TrimSpace(r); r != "" {
				roots = append(roots, r)
			}
		}
		cfg.Roots = roots
	}
	if v := os.Getenv("PRJ_NO_CACHE"); v != "" {
		noCache, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PRJ_NO_CACHE %q: %w", v, err)
		}
		cfg.Scan.UseCache = !noCache
	}
	return nil
}

// expand resolves ~ in roots and fills zero values with defaults.
func (c *Config) expand() error {
	for i, r := range c.Roots {
		expanded, err := expandPath(r)
		if err != nil {
			return fmt.Errorf("expand roots[%d]: %w", i, err)
		}
		c.Roots[i] = filepath.Clean(expanded)
	}

	d := Default()
	if c.Scan.CacheTTL == 0 {
		c.Scan.CacheTTL = d.Scan.CacheTTL
	}
	if c.Scan.CacheSize == 0 {
		c.Scan.CacheSize = d.Scan.CacheSize
	}
	if c.Scan.DetectTimeout == 0 {
		c.Scan.DetectTimeout = d.Scan.DetectTimeout
	}
	if c.Recent.MaxSize == 0 {
		c.Recent.MaxSize = d.Recent.MaxSize
	}
	if c.Recent.MaxAge == 0 {
		c.Recent.MaxAge = d.Recent.MaxAge
	}
	if c.Recent.MergeStrategy == "" {
		c.Recent.MergeStrategy = d.Recent.MergeStrategy
	}
	if c.Top.Depth == 0 {
		c.Top.Depth = d.Top.Depth
	}
	return nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const defaultConfig = `# prj configuration

# Directories whose immediate subdirectories are scanned for projects.
# Must be absolute paths or start with ~
# Overridden by PRJ_ROOTS (colon separated).
# roots = ["~/code", "~/work"]

[scan]
# Reuse scan results for the same root within cache_ttl.
use_cache = true
cache_ttl = "5m"
cache_size = 100
# A directory that cannot be classified within this time counts as unclassified.
detect_timeout = "5s"
# Maximum parallel directory probes per root (0 = one per subdirectory).
concurrency = 0

[recent]
max_size = 50
# "prj recent --cleanup" drops entries older than this.
max_age = "720h"
# Used by "prj recent --merge": "latest" or "keep".
merge_strategy = "latest"

[top]
# Entries taken from each ranking view.
depth = 10

# State files default to ~/.prj/ (or $PRJ_HOME).
# registry_path = "~/.prj/projects.json"
# history_path = "~/.prj/history.json"
`

// DefaultConfig returns the commented template written by Init.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file and returns its path.
// If force is true, overwrites an existing file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

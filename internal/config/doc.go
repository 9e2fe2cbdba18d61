// Package config handles loading and validation of prj configuration.
//
// Configuration is read from ~/.config/prj/config.toml (or $PRJ_CONFIG) with
// environment variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - PRJ_ROOTS env var: scan roots, separated like PATH
//   - PRJ_NO_CACHE env var: disable the scan cache when true
//   - Config file settings
//   - Default values
//
// PRJ_HOME relocates the state directory (~/.prj/) holding the project
// registry and recent history; see package storage.
//
// # Key Settings
//
//   - roots: directories whose children are scanned
//   - [scan] use_cache, cache_ttl, cache_size, detect_timeout, concurrency
//   - [recent] max_size, max_age, merge_strategy
//   - [top] depth: entries taken from each ranking view
//
// Durations are written as Go duration strings ("5m", "720h"). Zero values
// fall back to the defaults; negative values are rejected.
//
// # Path Validation
//
// Roots and state file overrides must be absolute or start with ~ (no
// relative paths like "." or "..") to avoid confusion about the working
// directory.
package config

package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ValidMergeStrategies lists the accepted recent.merge_strategy values.
var ValidMergeStrategies = []string{"latest", "keep"}

func (c *Config) validate() error {
	for i, r := range c.Roots {
		field := fmt.Sprintf("roots[%d]", i)
		if r == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		if err := ValidatePath(r, field); err != nil {
			return err
		}
	}
	if err := ValidatePath(c.RegistryFile, "registry_path"); err != nil {
		return err
	}
	if err := ValidatePath(c.HistoryFile, "history_path"); err != nil {
		return err
	}

	limits := []struct {
		field string
		value int64
	}{
		{"scan.cache_ttl", int64(c.Scan.CacheTTL)},
		{"scan.cache_size", int64(c.Scan.CacheSize)},
		{"scan.detect_timeout", int64(c.Scan.DetectTimeout)},
		{"scan.concurrency", int64(c.Scan.Concurrency)},
		{"recent.max_size", int64(c.Recent.MaxSize)},
		{"recent.max_age", int64(c.Recent.MaxAge)},
		{"top.depth", int64(c.Top.Depth)},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("%s must not be negative", l.field)
		}
	}

	return validateEnum(c.Recent.MergeStrategy, "recent.merge_strategy", ValidMergeStrategies)
}

// ValidatePath rejects relative paths. Empty paths and paths starting with
// ~ are accepted; ~ is expanded later.
func ValidatePath(path, field string) error {
	if path == "" || strings.HasPrefix(path, "~") {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", field, path)
	}
	return nil
}

// validateEnum accepts an empty value or one of allowed.
func validateEnum(value, field string, allowed []string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
}

// formatOptions renders ["a", "b", "c"] as `"a", "b", or "c"`.
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}

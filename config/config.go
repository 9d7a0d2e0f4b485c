// Package config loads the indexing core's configuration: strictness
// overrides, force-min/force-max clamps, autogen mode, worker count, and
// cache directory. It follows a TOML-module-loading idiom (open, read,
// unmarshal, validate) built on go-toml/v2.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"sigil/core"
)

// tomlConfig is the on-disk shape of a sigil config file.
type tomlConfig struct {
	StrictnessOverrides map[string]string `toml:"strictness_overrides"`
	ForceMinStrict      string            `toml:"force_min_strict"`
	ForceMaxStrict      string            `toml:"force_max_strict"`
	RunningUnderAutogen bool              `toml:"running_under_autogen"`
	Workers             int               `toml:"workers"`
	CacheDir            string            `toml:"cache_dir"`
}

// Config is the parsed, validated configuration used by the coordinator and
// indexer to decide per-file strictness.
type Config struct {
	StrictnessOverrides map[string]core.StrictLevel
	ForceMinStrict      core.StrictLevel
	ForceMaxStrict      core.StrictLevel
	RunningUnderAutogen bool
	Workers             int
	CacheDir            string
}

// Default returns the configuration used when no file is present: no
// overrides, full clamp range, autogen off, one worker per CPU left
// unspecified (callers decide), cache under ".sigil-cache".
func Default() *Config {
	return &Config{
		StrictnessOverrides: map[string]core.StrictLevel{},
		ForceMinStrict:      core.StrictIgnore,
		ForceMaxStrict:      core.StrictStrong,
		CacheDir:            ".sigil-cache",
	}
}

// Load reads and validates a TOML config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(buf, &tc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return fromTOML(&tc)
}

func fromTOML(tc *tomlConfig) (*Config, error) {
	cfg := Default()
	cfg.RunningUnderAutogen = tc.RunningUnderAutogen
	cfg.Workers = tc.Workers
	if tc.CacheDir != "" {
		cfg.CacheDir = tc.CacheDir
	}

	if tc.ForceMinStrict != "" {
		lvl, err := ParseStrictLevel(tc.ForceMinStrict)
		if err != nil {
			return nil, fmt.Errorf("config: force_min_strict: %w", err)
		}
		cfg.ForceMinStrict = lvl
	}
	if tc.ForceMaxStrict != "" {
		lvl, err := ParseStrictLevel(tc.ForceMaxStrict)
		if err != nil {
			return nil, fmt.Errorf("config: force_max_strict: %w", err)
		}
		cfg.ForceMaxStrict = lvl
	}

	cfg.StrictnessOverrides = make(map[string]core.StrictLevel, len(tc.StrictnessOverrides))
	for path, level := range tc.StrictnessOverrides {
		lvl, err := ParseStrictLevel(level)
		if err != nil {
			return nil, fmt.Errorf("config: strictness_overrides[%s]: %w", path, err)
		}
		cfg.StrictnessOverrides[NormalizePath(path)] = lvl
	}

	return cfg, nil
}

// NormalizePath prefixes a relative path with "./" before override lookup.
// Paths already starting with "./" or "../", absolute paths and "" are
// returned unchanged.
func NormalizePath(path string) string {
	if path == "" || strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	return "./" + path
}

// ParseStrictLevel parses the lowercase sigil spelling used in config files
// and source `# sigil:` comments.
func ParseStrictLevel(s string) (core.StrictLevel, error) {
	switch strings.ToLower(s) {
	case "ignore":
		return core.StrictIgnore, nil
	case "internal":
		return core.StrictInternal, nil
	case "false":
		return core.StrictFalse, nil
	case "true":
		return core.StrictTrue, nil
	case "strict":
		return core.StrictStrict, nil
	case "strong":
		return core.StrictStrong, nil
	default:
		return core.StrictIgnore, fmt.Errorf("unknown strictness level %q", s)
	}
}

// Override looks up a user-supplied strictness override for a path. The
// path must already be normalized.
func (c *Config) Override(normalizedPath string) (core.StrictLevel, bool) {
	lvl, ok := c.StrictnessOverrides[normalizedPath]
	return lvl, ok
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/config"
	"sigil/core"
)

func TestDefaultHasFullClampRange(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, core.StrictIgnore, cfg.ForceMinStrict)
	require.Equal(t, core.StrictStrong, cfg.ForceMaxStrict)
	require.Empty(t, cfg.StrictnessOverrides)
}

func TestNormalizePathPrependsDotSlash(t *testing.T) {
	require.Equal(t, "./foo.rb", config.NormalizePath("foo.rb"))
	require.Equal(t, "./foo.rb", config.NormalizePath("./foo.rb"))
	require.Equal(t, "../foo.rb", config.NormalizePath("../foo.rb"))
}

func TestParseStrictLevelRejectsUnknown(t *testing.T) {
	_, err := config.ParseStrictLevel("bogus")
	require.Error(t, err)
}

func TestLoadParsesOverridesAndClamp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sigil.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
force_min_strict = "true"
force_max_strict = "strict"
running_under_autogen = true
workers = 4
cache_dir = "/tmp/sigil-cache"

[strictness_overrides]
"lib/foo.rb" = "strong"
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, core.StrictTrue, cfg.ForceMinStrict)
	require.Equal(t, core.StrictStrict, cfg.ForceMaxStrict)
	require.True(t, cfg.RunningUnderAutogen)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, "/tmp/sigil-cache", cfg.CacheDir)

	lvl, ok := cfg.Override("./lib/foo.rb")
	require.True(t, ok)
	require.Equal(t, core.StrictStrong, lvl)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sigil.toml")
	require.NoError(t, os.WriteFile(path, []byte(`force_min_strict = "nonsense"`), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/config"
	"sigil/report"
)

func TestDiscoverFilesWalksDirectoryForSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rb"), []byte("class A; end"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rbi"), []byte("class B; end"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.rb"), []byte("class C; end"), 0o644))

	files, err := discoverFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
}

func TestDiscoverFilesSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.rb")
	require.NoError(t, os.WriteFile(path, []byte("class A; end"), 0o644))

	files, err := discoverFiles(path)
	require.NoError(t, err)
	require.Equal(t, []string{path}, files)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := parseLogLevel("silent")
	require.NoError(t, err)
	require.Equal(t, report.LogLevelSilent, lvl)

	_, err = parseLogLevel("loud")
	require.Error(t, err)
}

func TestLoadConfigDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, config.Default().CacheDir, cfg.CacheDir)
}

func TestDriverCheckIndexesAndResolvesFiles(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rb"), []byte("class A\nend\n"), 0o644))

	cfg := config.Default()
	cfg.CacheDir = ""
	d := NewDriver(cfg)

	ok := d.Check([]string{dir})
	require.True(t, ok)
}

func TestDriverCheckReportsMissingPath(t *testing.T) {
	report.ResetForTest(report.LogLevelSilent)

	cfg := config.Default()
	cfg.CacheDir = ""
	d := NewDriver(cfg)

	ok := d.Check([]string{filepath.Join(t.TempDir(), "missing")})
	require.False(t, ok)
}

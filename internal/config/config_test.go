package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFindConfigPath_ReturnsProjectConfig_When_FileExists(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	path := writeConfig(t, dir, "log_level: debug\n")

	assert.Equal(t, path, FindConfigPath(dir))
}

func TestFindConfigPath_UsesXDGPath_When_ProjectConfigMissing(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is only consulted on unix-like systems other than darwin")
	}
	tempDir := t.TempDir()
	xdgRoot := filepath.Join(tempDir, "xdg")
	configHome := filepath.Join(xdgRoot, "taskcenter")
	require.NoError(t, os.MkdirAll(configHome, 0o755))
	configPath := writeConfig(t, configHome, "log_level: warn\n")

	t.Setenv("XDG_CONFIG_HOME", xdgRoot)
	t.Setenv("HOME", filepath.Join(tempDir, "home"))

	assert.Equal(t, configPath, FindConfigPath(filepath.Join(tempDir, "project")))
}

func TestFindConfigPath_ReturnsEmpty_When_NoConfigAvailable(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tempDir, "home"))

	assert.Empty(t, FindConfigPath(tempDir))
}

func TestLoadConfig_ReturnsDefaults_When_PathEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "tasks.json", cfg.Manifest)
	assert.Equal(t, ".py", cfg.ScriptExt)
	assert.Equal(t, 2*time.Second, cfg.StopGrace)
}

func TestLoadConfig_MergesFileOverDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `
manifest: jobs.json
interpreter: python3
shell: ["/bin/bash", "-c"]
stop_grace: 500ms
no_color: true
dashboard:
  title:
    text: Ops
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "jobs.json", cfg.Manifest)
	assert.Equal(t, ".py", cfg.ScriptExt, "unset keys keep defaults")
	assert.Equal(t, "task_center.py", cfg.LauncherScript)
	assert.Equal(t, "python3", cfg.Interpreter)
	assert.Equal(t, []string{"/bin/bash", "-c"}, cfg.Shell)
	assert.Equal(t, 500*time.Millisecond, cfg.StopGrace)
	assert.True(t, cfg.NoColor)
	require.NotNil(t, cfg.Dashboard)
	assert.Equal(t, "Ops", cfg.Dashboard.Title.Text)
}

func TestLoadConfig_ReturnsError_When_YAMLInvalid(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "manifest: [unterminated\n")

	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ReturnsError_When_FileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

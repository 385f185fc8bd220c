package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/taskcenter/pkg/dashboard"
	"github.com/dkoosis/taskcenter/pkg/manifest"
	"github.com/dkoosis/taskcenter/pkg/supervisor"
)

// FileName is the config file looked up in the project directory.
const FileName = ".taskcenter.yaml"

// DefaultLogLevel applies when nothing else sets a level.
const DefaultLogLevel = "info"

// AppConfig represents the application's configuration from .taskcenter.yaml.
type AppConfig struct {
	Manifest       string                    `yaml:"manifest"`
	ScriptExt      string                    `yaml:"script_ext"`
	LauncherScript string                    `yaml:"launcher_script"`
	Interpreter    string                    `yaml:"interpreter"`
	Shell          []string                  `yaml:"shell"`
	StopGrace      time.Duration             `yaml:"stop_grace"`
	LogLevel       string                    `yaml:"log_level"`
	NoColor        bool                      `yaml:"no_color"`
	Dashboard      *dashboard.DashboardTheme `yaml:"dashboard"`
}

// DefaultConfig returns the hardcoded defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Manifest:       manifest.DefaultManifestName,
		ScriptExt:      manifest.DefaultScriptExt,
		LauncherScript: manifest.DefaultLauncherScript,
		StopGrace:      supervisor.DefaultStopGrace,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadConfig reads the config file at path and merges it over the defaults.
// An empty path yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	appCfg := DefaultConfig()
	if path == "" {
		return appCfg, nil
	}

	// #nosec G304 -- path is an explicit flag or from FindConfigPath
	data, err := os.ReadFile(path)
	if err != nil {
		return appCfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return appCfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Merge YAML settings onto the defaults
	if fileCfg.Manifest != "" {
		appCfg.Manifest = fileCfg.Manifest
	}
	if fileCfg.ScriptExt != "" {
		appCfg.ScriptExt = fileCfg.ScriptExt
	}
	if fileCfg.LauncherScript != "" {
		appCfg.LauncherScript = fileCfg.LauncherScript
	}
	if fileCfg.StopGrace != 0 {
		appCfg.StopGrace = fileCfg.StopGrace
	}
	if fileCfg.LogLevel != "" {
		appCfg.LogLevel = fileCfg.LogLevel
	}
	appCfg.Interpreter = fileCfg.Interpreter
	appCfg.Shell = fileCfg.Shell
	appCfg.NoColor = fileCfg.NoColor
	appCfg.Dashboard = fileCfg.Dashboard

	return appCfg, nil
}

// FindConfigPath locates the config file: the project directory first, then
// the user config directory. It returns "" when neither exists.
func FindConfigPath(projectDir string) string {
	local := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "taskcenter", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

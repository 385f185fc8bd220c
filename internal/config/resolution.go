package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dkoosis/taskcenter/pkg/dashboard"
)

// CliFlags holds the values of command-line flags that take part in
// resolution, with flags tracking whether the user set them explicitly.
type CliFlags struct {
	ConfigPath string
	LogLevel   string
	NoColor    bool

	LogLevelSet bool
	NoColorSet  bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	// Task resolution
	Manifest       string
	ScriptExt      string
	LauncherScript string
	Interpreter    string
	Shell          []string

	// Supervision
	StopGrace time.Duration

	// Presentation
	LogLevel log.Level
	NoColor  bool
	Theme    *dashboard.DashboardTheme

	// Resolution metadata (for debugging)
	ConfigPath        string // file that was loaded, "" for none
	LogLevelSource    string // "cli", "env", "file", "default"
	NoColorSource     string // "cli", "env", "file", "default"
	InterpreterSource string // "env", "file", "probe"
}

// ResolveConfig resolves configuration from all sources with explicit
// priority order: CLI > env > file > defaults.
func ResolveConfig(cliFlags CliFlags, projectDir string) (*ResolvedConfig, error) {
	path := cliFlags.ConfigPath
	if path == "" {
		path = FindConfigPath(projectDir)
	}
	appCfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	fileSource := "file"
	if path == "" {
		fileSource = "default"
	}

	resolved := &ResolvedConfig{
		Manifest:          appCfg.Manifest,
		ScriptExt:         appCfg.ScriptExt,
		LauncherScript:    appCfg.LauncherScript,
		Interpreter:       appCfg.Interpreter,
		Shell:             appCfg.Shell,
		StopGrace:         appCfg.StopGrace,
		NoColor:           appCfg.NoColor,
		Theme:             dashboard.ResolveTheme(appCfg.Dashboard),
		ConfigPath:        path,
		LogLevelSource:    fileSource,
		NoColorSource:     fileSource,
		InterpreterSource: "probe",
	}
	if appCfg.Interpreter != "" {
		resolved.InterpreterSource = "file"
	}
	levelText := appCfg.LogLevel

	// Resolve LogLevel with priority: CLI > ENV > file > default
	if cliFlags.LogLevelSet {
		levelText = cliFlags.LogLevel
		resolved.LogLevelSource = "cli"
	} else if env := os.Getenv("TASKCENTER_LOG_LEVEL"); env != "" {
		levelText = env
		resolved.LogLevelSource = "env"
	}

	// Resolve NoColor with priority: CLI > ENV > file > default
	if cliFlags.NoColorSet {
		resolved.NoColor = cliFlags.NoColor
		resolved.NoColorSource = "cli"
	} else if envNoColor := getEnvBool("TASKCENTER_NO_COLOR", "NO_COLOR"); envNoColor != nil {
		resolved.NoColor = *envNoColor
		resolved.NoColorSource = "env"
	}

	// Resolve Interpreter with priority: ENV > file > probe
	if env := strings.TrimSpace(os.Getenv("TASKCENTER_INTERPRETER")); env != "" {
		resolved.Interpreter = env
		resolved.InterpreterSource = "env"
	}

	level, err := log.ParseLevel(levelText)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	resolved.LogLevel = level

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return resolved, nil
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set, or a pointer to the boolean value.
// NO_COLOR follows its convention: any non-empty value means true.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
		if key == "NO_COLOR" {
			b := true
			return &b
		}
	}
	return nil
}

// validateResolvedConfig rejects values no component can run with.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	if cfg.StopGrace <= 0 {
		return fmt.Errorf("stop_grace must be positive, got: %s", cfg.StopGrace)
	}
	if !strings.HasPrefix(cfg.ScriptExt, ".") {
		return fmt.Errorf("script_ext must start with a dot, got: %q", cfg.ScriptExt)
	}
	if strings.ContainsAny(cfg.Manifest, `/\`) {
		return fmt.Errorf("manifest must be a file name, got: %q", cfg.Manifest)
	}
	if len(cfg.Shell) == 1 {
		return errors.New("shell needs an executable and a flag, e.g. [\"/bin/sh\", \"-c\"]")
	}
	return nil
}

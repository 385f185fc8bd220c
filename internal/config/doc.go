// Package config handles configuration loading and merging for taskcenter.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--log-level, --no-color)
//  2. Environment variables (TASKCENTER_LOG_LEVEL, TASKCENTER_NO_COLOR, NO_COLOR, TASKCENTER_INTERPRETER)
//  3. YAML config file (--config, else .taskcenter.yaml in the project directory,
//     else ~/.config/taskcenter/.taskcenter.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Key Configuration Options
//
//   - Manifest: File name of the task manifest (tasks.json)
//   - ScriptExt: Extension of scripts discovered next to the manifest (.py)
//   - Interpreter: Interpreter substituted for {python}; empty means probe the host
//   - Shell: Executable and flag wrapping string-form commands
//   - StopGrace: Delay between the polite stop signal and the forced kill
//   - Dashboard: Colors, icons and title of the terminal UI
//
// # Environment Variables
//
//   - TASKCENTER_NO_COLOR or NO_COLOR: Set to "true" or "1" to disable colors
//   - TASKCENTER_LOG_LEVEL: debug, info, warn or error
//   - TASKCENTER_INTERPRETER: Pin the interpreter and skip probing
package config

package manifest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dkoosis/taskcenter/internal/logging"
)

// Resolver produces the ordered task list for a project directory.
type Resolver struct {
	manifestName string
	scriptExt    string
	launcher     string
	shell        []string
	probeTimeout time.Duration
	logger       *log.Logger

	interpOnce  sync.Once
	interpreter string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithManifestName overrides the manifest file name (default tasks.json).
func WithManifestName(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.manifestName = name
		}
	}
}

// WithScriptExt overrides the extension of discovered scripts (default .py).
func WithScriptExt(ext string) Option {
	return func(r *Resolver) {
		if ext != "" {
			r.scriptExt = ext
		}
	}
}

// WithLauncherScript overrides the script name excluded from discovery.
func WithLauncherScript(name string) Option {
	return func(r *Resolver) { r.launcher = name }
}

// WithInterpreter pins the interpreter and skips probing. Empty means probe.
func WithInterpreter(interpreter string) Option {
	return func(r *Resolver) {
		if interpreter != "" {
			r.interpreter = interpreter
			r.interpOnce.Do(func() {})
		}
	}
}

// WithShell sets the executable and flag that wrap string-form commands.
func WithShell(shell ...string) Option {
	return func(r *Resolver) {
		if len(shell) > 0 {
			r.shell = append([]string(nil), shell...)
		}
	}
}

// WithProbeTimeout bounds the interpreter probe.
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.probeTimeout = d }
}

// WithLogger sets the logger used to report recovered problems.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a Resolver with defaults for anything not set.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		manifestName: DefaultManifestName,
		scriptExt:    DefaultScriptExt,
		launcher:     DefaultLauncherScript,
		shell:        DefaultShell(),
		probeTimeout: DefaultProbeTimeout,
		logger:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultShell returns the platform shell used for string-form commands.
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		comspec := os.Getenv("COMSPEC")
		if comspec == "" {
			comspec = "cmd.exe"
		}
		return []string{comspec, "/C"}
	}
	return []string{"/bin/sh", "-c"}
}

// Interpreter returns the pinned interpreter, probing once on first use.
func (r *Resolver) Interpreter(ctx context.Context) string {
	r.interpOnce.Do(func() {
		r.interpreter = ProbeInterpreter(ctx, r.probeTimeout)
		r.logger.Debug("interpreter probed", "interpreter", r.interpreter)
	})
	return r.interpreter
}

// Resolve returns manifest tasks in manifest order followed by discovered
// scripts in file-name order. It never fails: a broken manifest or an
// unreadable directory is logged and contributes no tasks.
func (r *Resolver) Resolve(ctx context.Context, projectDir string) []Task {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		dir = filepath.Clean(projectDir)
	}

	interpreter := r.Interpreter(ctx)
	parser := entryParser{
		projectDir:   dir,
		placeholders: NewPlaceholders(dir, interpreter),
		shell:        r.shell,
		scriptExt:    r.scriptExt,
		logger:       r.logger,
	}

	tasks := r.loadManifest(filepath.Join(dir, r.manifestName), parser)

	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Script != "" {
			known[t.Script] = true
		}
	}

	discovered, err := discoverScripts(dir, r.scriptExt, r.launcher, interpreter, known)
	if err != nil {
		r.logger.Warn("script discovery failed", "err", err)
	}

	r.logger.Debug("tasks resolved", "dir", dir, "manifest", len(tasks), "discovered", len(discovered))
	return append(tasks, discovered...)
}

// loadManifest reads and parses the manifest file. A missing file yields no
// tasks silently; any other failure is logged and yields no tasks.
func (r *Resolver) loadManifest(path string, parser entryParser) []Task {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the project manifest
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("manifest unreadable", "path", path, "err", err)
		}
		return nil
	}

	entries, err := decodeEntries(data)
	if err != nil {
		r.logger.Warn("manifest ignored", "err", &ParseError{Path: path, Err: err})
		return nil
	}

	tasks := make([]Task, 0, len(entries))
	for i, entry := range entries {
		task, err := parser.parse(i, entry)
		if err != nil {
			r.logger.Debug("manifest entry dropped", "err", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

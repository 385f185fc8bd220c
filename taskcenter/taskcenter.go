// Package taskcenter ties task resolution, command building and process
// supervision together behind the few calls a front end needs.
package taskcenter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dkoosis/taskcenter/internal/logging"
	"github.com/dkoosis/taskcenter/pkg/command"
	"github.com/dkoosis/taskcenter/pkg/manifest"
	"github.com/dkoosis/taskcenter/pkg/supervisor"
)

// Option configures a Center.
type Option func(*config)

// WithLogger sets the logger. It is also handed to the default resolver and
// supervisor.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithResolver replaces the task resolver.
func WithResolver(r *manifest.Resolver) Option {
	return func(cfg *config) { cfg.resolver = r }
}

// WithSupervisor replaces the process supervisor.
func WithSupervisor(s *supervisor.Supervisor) Option {
	return func(cfg *config) { cfg.supervisor = s }
}

type config struct {
	logger     *log.Logger
	resolver   *manifest.Resolver
	supervisor *supervisor.Supervisor
}

func defaultConfig() config {
	return config{logger: logging.Discard()}
}

// Center is the task center for one project directory.
type Center struct {
	projectDir string
	cfg        config
}

// New constructs a Center rooted at projectDir.
func New(projectDir string, opts ...Option) *Center {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultConfig().logger
	}
	if cfg.resolver == nil {
		cfg.resolver = manifest.NewResolver(manifest.WithLogger(cfg.logger.WithPrefix("manifest")))
	}
	if cfg.supervisor == nil {
		cfg.supervisor = supervisor.New(supervisor.WithLogger(cfg.logger.WithPrefix("supervisor")))
	}

	if abs, err := filepath.Abs(projectDir); err == nil {
		projectDir = abs
	}
	return &Center{projectDir: projectDir, cfg: cfg}
}

// ProjectDir returns the absolute project directory.
func (c *Center) ProjectDir() string { return c.projectDir }

// ResolveTasks lists the project's tasks: manifest entries first, then
// discovered scripts.
func (c *Center) ResolveTasks(ctx context.Context) []manifest.Task {
	return c.cfg.resolver.Resolve(ctx, c.projectDir)
}

// RunTask builds the task's command and starts it. Invalid tasks and an
// occupied slot are reported here; everything after launch arrives on the
// returned channel.
func (c *Center) RunTask(ctx context.Context, task manifest.Task) (<-chan supervisor.Event, error) {
	inv, err := command.Build(task)
	if err != nil {
		return nil, err
	}
	events, err := c.cfg.supervisor.Start(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", task.Name, err)
	}
	c.cfg.logger.Debug("task launched", "task", task.Name, "source", task.Source)
	return events, nil
}

// RunTaskFunc is RunTask with callbacks. onLine receives every output line
// and onExit the final event; both are called from a single goroutine, in
// order. Either may be nil.
func (c *Center) RunTaskFunc(ctx context.Context, task manifest.Task, onLine func(string), onExit func(supervisor.Event)) error {
	events, err := c.RunTask(ctx, task)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			switch ev.Kind {
			case supervisor.EventLine:
				if onLine != nil {
					onLine(ev.Line)
				}
			case supervisor.EventExit:
				if onExit != nil {
					onExit(ev)
				}
			}
		}
	}()
	return nil
}

// StopCurrentTask asks the running task to exit. It does nothing when no
// task is running.
func (c *Center) StopCurrentTask() error {
	return c.cfg.supervisor.Stop()
}

// Running reports whether a task occupies the slot.
func (c *Center) Running() bool {
	return c.cfg.supervisor.State() != supervisor.Idle
}

// CompletionMessage is the console line printed when a run ends.
func CompletionMessage(name string, code int) string {
	if code == 0 {
		return fmt.Sprintf("[DONE] %s completed successfully.", name)
	}
	return fmt.Sprintf("[DONE] %s exited with code %d.", name, code)
}

// FindTask looks a task up by name, ignoring case and surrounding space.
func FindTask(tasks []manifest.Task, name string) (manifest.Task, bool) {
	name = strings.TrimSpace(name)
	for _, t := range tasks {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return manifest.Task{}, false
}

// Package cli provides the command-line interface for taskcenter.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dkoosis/taskcenter/internal/config"
	"github.com/dkoosis/taskcenter/internal/logging"
	"github.com/dkoosis/taskcenter/pkg/dashboard"
	"github.com/dkoosis/taskcenter/pkg/manifest"
	"github.com/dkoosis/taskcenter/pkg/supervisor"
	"github.com/dkoosis/taskcenter/taskcenter"
)

// launchTUIFunc starts the interactive dashboard. Tests replace it.
var launchTUIFunc = func(ctx context.Context, center *taskcenter.Center, tasks []manifest.Task) error {
	return dashboard.Run(ctx, center, tasks)
}

// isTerminal decides between the dashboard and plain output. Tests replace it.
var isTerminal = dashboard.IsTerminal

// openLog builds the session logger. Tests replace it.
var openLog = logging.Open

// options holds the persistent flag values.
type options struct {
	dir        string
	configPath string
	logLevel   string
	logFile    string
	noColor    bool
}

// session is what every command needs once flags and config are resolved.
type session struct {
	cfg    *config.ResolvedConfig
	logger *log.Logger
	center *taskcenter.Center
	closer io.Closer
}

// Execute runs taskcenter with args and returns the process exit code. The
// log file is released even when the command fails.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, s := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	_ = s.close()
	return ExitCode(err, stderr)
}

// NewRootCommand creates the root command for taskcenter.
func NewRootCommand() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *session) {
	opts := &options{}
	s := &session{}

	root := &cobra.Command{
		Use:   "taskcenter",
		Short: "Launch project tasks and watch their output",
		Long: `taskcenter lists the tasks declared in a project's tasks.json together
with the scripts found next to it, and runs one at a time while streaming
its output.

Without a subcommand it opens the interactive dashboard when stdout is a
terminal and prints the task list otherwise.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			interactive := cmd.Parent() == nil && isTerminal(cmd.OutOrStdout())
			return s.open(cmd, opts, interactive)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return s.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks := s.center.ResolveTasks(cmd.Context())
			if isTerminal(cmd.OutOrStdout()) {
				return launchTUIFunc(cmd.Context(), s.center, tasks)
			}
			return printTaskTable(cmd.OutOrStdout(), tasks)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "C", "", "project directory (default: current directory)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default: <dir>/"+config.FileName+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "append logs to this file")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newListCommand(s),
		newRunCommand(s),
		newVersionCommand(),
	)
	return root, s
}

// open resolves configuration and builds the task center for cmd.
func (s *session) open(cmd *cobra.Command, opts *options, interactive bool) error {
	dir := opts.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get current directory: %w", err)
		}
		dir = wd
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("project directory %q is not a directory", dir)
	}

	flags := cmd.Flags()
	cfg, err := config.ResolveConfig(config.CliFlags{
		ConfigPath:  opts.configPath,
		LogLevel:    opts.logLevel,
		LogLevelSet: flags.Changed("log-level"),
		NoColor:     opts.noColor,
		NoColorSet:  flags.Changed("no-color"),
	}, dir)
	if err != nil {
		return err
	}

	// The dashboard owns the terminal, so its logs go to a file or nowhere.
	fallback := cmd.ErrOrStderr()
	if interactive {
		fallback = io.Discard
	}
	logger, closer, err := openLog(opts.logFile, fallback, cfg.LogLevel)
	if err != nil {
		return err
	}

	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	dashboard.SetTheme(cfg.Theme)

	logger.Debug("config resolved",
		"config", cfg.ConfigPath,
		"log_level_source", cfg.LogLevelSource,
		"no_color_source", cfg.NoColorSource,
		"interpreter_source", cfg.InterpreterSource)

	resolver := manifest.NewResolver(
		manifest.WithManifestName(cfg.Manifest),
		manifest.WithScriptExt(cfg.ScriptExt),
		manifest.WithLauncherScript(cfg.LauncherScript),
		manifest.WithInterpreter(cfg.Interpreter),
		manifest.WithShell(cfg.Shell...),
		manifest.WithLogger(logger.WithPrefix("manifest")),
	)
	sup := supervisor.New(
		supervisor.WithStopGrace(cfg.StopGrace),
		supervisor.WithLogger(logger.WithPrefix("supervisor")),
	)

	s.cfg = cfg
	s.logger = logger
	s.closer = closer
	s.center = taskcenter.New(dir,
		taskcenter.WithLogger(logger),
		taskcenter.WithResolver(resolver),
		taskcenter.WithSupervisor(sup),
	)
	return nil
}

// close releases the log file. Calling it again is a no-op.
func (s *session) close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

package supervisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dkoosis/taskcenter/internal/logging"
	"github.com/dkoosis/taskcenter/pkg/command"
)

const (
	// DefaultStopGrace is how long Stop waits before force-killing the tree.
	DefaultStopGrace = 2 * time.Second

	eventBuffer   = 256
	maxLineLength = 1024 * 1024
)

// Supervisor owns the single process slot. The zero value is not usable;
// construct with New.
type Supervisor struct {
	stopGrace time.Duration
	logger    *log.Logger

	mu    sync.Mutex
	state State
	last  State
	run   *run
}

// run is the bookkeeping for one launched process.
type run struct {
	id       uuid.UUID
	cmd      *exec.Cmd
	done     chan struct{}
	stopping bool
	timer    *time.Timer
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithStopGrace sets the delay between the polite stop signal and the kill.
func WithStopGrace(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.stopGrace = d
		}
	}
}

// WithLogger sets the logger for lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Supervisor) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns an idle Supervisor.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		stopGrace: DefaultStopGrace,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current slot state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastOutcome reports how the most recent run ended, or Idle if none has.
func (s *Supervisor) LastOutcome() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Start launches inv and returns its event stream. The caller must drain the
// channel until it is closed; the child blocks on output otherwise.
//
// A launch failure is not returned here: it arrives as the single EventExit
// on the stream, with Err wrapping ErrLaunchFailed. Cancelling ctx stops the
// process the same way Stop does.
func (s *Supervisor) Start(ctx context.Context, inv command.Invocation) (<-chan Event, error) {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.state = Starting
	s.mu.Unlock()

	r := &run{id: uuid.New(), done: make(chan struct{})}
	events := make(chan Event, eventBuffer)

	stdout, stderr, err := s.launch(r, inv)
	if err != nil {
		s.logger.Warn("task failed to start", "run", r.id, "exe", inv.Executable, "err", err)
		s.setIdle(FailedToStart)
		events <- Event{
			RunID:    r.id,
			Kind:     EventExit,
			Time:     time.Now(),
			ExitCode: 1,
			Outcome:  FailedToStart,
			Err:      fmt.Errorf("%w: %w", ErrLaunchFailed, err),
		}
		close(events)
		return events, nil
	}

	s.mu.Lock()
	s.state = Running
	s.run = r
	s.mu.Unlock()
	s.logger.Info("task started", "run", r.id, "pid", r.cmd.Process.Pid, "cmd", inv.String(), "dir", inv.Dir)

	var wg sync.WaitGroup
	wg.Add(2)
	go s.readStream(&wg, stdout, "", r.id, events)
	go s.readStream(&wg, stderr, StderrPrefix, r.id, events)

	unhook := context.AfterFunc(ctx, func() {
		if err := s.stopRun(r); err != nil {
			s.logger.Warn("stop on cancel failed", "run", r.id, "err", err)
		}
	})

	go s.wait(r, &wg, unhook, events)
	return events, nil
}

// launch builds and starts the command with both output streams piped.
func (s *Supervisor) launch(r *run, inv command.Invocation) (io.ReadCloser, io.ReadCloser, error) {
	cmd := exec.Command(inv.Executable, inv.Args...) // #nosec G204 -- running user tasks is the point
	cmd.Dir = inv.Dir
	configureCommand(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	r.cmd = cmd
	return stdout, stderr, nil
}

// readStream forwards non-blank lines from pipe. An oversized line ends
// scanning; the rest of the pipe is discarded so the child never blocks.
func (s *Supervisor) readStream(wg *sync.WaitGroup, pipe io.Reader, prefix string, id uuid.UUID, events chan<- Event) {
	defer wg.Done()

	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		events <- Event{RunID: id, Kind: EventLine, Time: time.Now(), Line: prefix + line}
	}
	if err := scanner.Err(); err != nil {
		if !errors.Is(err, io.EOF) && !strings.Contains(err.Error(), "file already closed") {
			s.logger.Warn("output stream truncated", "run", id, "err", err)
		}
		_, _ = io.Copy(io.Discard, pipe)
	}
}

// wait reaps the process after both streams drain, frees the slot and
// emits the exit event.
func (s *Supervisor) wait(r *run, wg *sync.WaitGroup, unhook func() bool, events chan<- Event) {
	wg.Wait()
	code := exitCode(r.cmd.Wait())
	close(r.done)
	unhook()

	s.mu.Lock()
	outcome := Completed
	if r.stopping {
		outcome = Killed
		if code <= 0 {
			code = ExitCodeKilled
		}
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	s.last = outcome
	s.run = nil
	s.state = Idle
	s.mu.Unlock()

	s.logger.Info("task exited", "run", r.id, "code", code, "outcome", outcome)
	events <- Event{RunID: r.id, Kind: EventExit, Time: time.Now(), ExitCode: code, Outcome: outcome}
	close(events)
}

// Stop asks the running process tree to exit and returns without waiting.
// It is a no-op when nothing is running or a stop is already in progress.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	r := s.run
	s.mu.Unlock()
	if r == nil {
		return nil
	}
	return s.stopRun(r)
}

func (s *Supervisor) stopRun(r *run) error {
	s.mu.Lock()
	if s.run != r || s.state != Running || r.stopping {
		s.mu.Unlock()
		return nil
	}
	r.stopping = true
	s.mu.Unlock()

	s.logger.Info("stopping task", "run", r.id, "pid", r.cmd.Process.Pid)
	if err := terminateTree(r.cmd.Process); err != nil {
		s.mu.Lock()
		r.stopping = false
		s.mu.Unlock()
		return &StopError{PID: r.cmd.Process.Pid, Err: err}
	}

	s.mu.Lock()
	if s.run == r {
		r.timer = time.AfterFunc(s.stopGrace, func() { s.escalate(r) })
	}
	s.mu.Unlock()
	return nil
}

// escalate force-kills a run that outlived the stop grace period.
func (s *Supervisor) escalate(r *run) {
	select {
	case <-r.done:
		return
	default:
	}
	s.logger.Warn("task ignored stop, killing", "run", r.id, "grace", s.stopGrace)
	if err := killTree(r.cmd.Process); err != nil {
		s.logger.Error("kill failed", "run", r.id, "err", err)
	}
}

func (s *Supervisor) setIdle(outcome State) {
	s.mu.Lock()
	s.last = outcome
	s.state = Idle
	s.run = nil
	s.mu.Unlock()
}

// exitCode maps a Wait error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code, ok := exitCodeFromError(exitErr); ok {
			return code
		}
		return exitErr.ExitCode()
	}
	return 1
}

//go:build unix

package supervisor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/taskcenter/pkg/command"
)

const testTimeout = 10 * time.Second

// collect drains a run's events and returns the output lines and exit event.
func collect(t *testing.T, events <-chan Event) ([]string, Event) {
	t.Helper()

	var (
		lines []string
		exit  Event
		exits int
	)
	deadline := time.After(testTimeout)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				require.Equal(t, 1, exits, "stream must end with exactly one exit event")
				return lines, exit
			}
			require.Zero(t, exits, "no events may follow the exit event")
			switch ev.Kind {
			case EventLine:
				lines = append(lines, ev.Line)
			case EventExit:
				exit = ev
				exits++
			}
		case <-deadline:
			t.Fatal("timed out waiting for run to finish")
		}
	}
}

// waitForLine consumes events up to and including the line want.
func waitForLine(t *testing.T, events <-chan Event, want string) {
	t.Helper()

	deadline := time.After(testTimeout)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "stream closed before %q", want)
			if ev.Kind == EventLine && ev.Line == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func sh(script string) command.Invocation {
	return command.Invocation{Executable: "/bin/sh", Args: []string{"-c", script}}
}

func TestSupervisor_StreamsOutputAndExit_When_CommandSucceeds(t *testing.T) {
	t.Parallel()

	s := New()
	events, err := s.Start(context.Background(), command.Invocation{
		Executable: "echo",
		Args:       []string{"hello world"},
	})
	require.NoError(t, err)

	lines, exit := collect(t, events)

	assert.Equal(t, []string{"hello world"}, lines)
	assert.Equal(t, 0, exit.ExitCode)
	assert.Equal(t, Completed, exit.Outcome)
	assert.NoError(t, exit.Err)
	assert.NotEqual(t, uuid.Nil, exit.RunID)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, Completed, s.LastOutcome())
}

func TestSupervisor_PrefixesStderrAndDropsBlankLines_When_CommandWritesBoth(t *testing.T) {
	t.Parallel()

	s := New()
	events, err := s.Start(context.Background(), sh(`echo out; echo; echo "   "; echo oops 1>&2; exit 3`))
	require.NoError(t, err)

	lines, exit := collect(t, events)

	assert.ElementsMatch(t, []string{"out", "[ERROR] oops"}, lines)
	assert.Equal(t, 3, exit.ExitCode)
	assert.Equal(t, Completed, exit.Outcome)
}

func TestSupervisor_PreservesOrderWithinStream(t *testing.T) {
	t.Parallel()

	s := New()
	events, err := s.Start(context.Background(), sh(`for i in 1 2 3 4 5; do echo "line $i"; done`))
	require.NoError(t, err)

	lines, _ := collect(t, events)
	assert.Equal(t, []string{"line 1", "line 2", "line 3", "line 4", "line 5"}, lines)
}

func TestSupervisor_TagsEventsWithOneRunID(t *testing.T) {
	t.Parallel()

	s := New()
	events, err := s.Start(context.Background(), sh(`echo a; echo b`))
	require.NoError(t, err)

	var ids []uuid.UUID
	for ev := range events {
		ids = append(ids, ev.RunID)
		assert.False(t, ev.Time.IsZero())
	}
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, ids[0], ids[2])
}

func TestSupervisor_RunsInInvocationDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	s := New()
	events, err := s.Start(context.Background(), command.Invocation{Executable: "pwd", Dir: dir})
	require.NoError(t, err)

	lines, exit := collect(t, events)
	require.Len(t, lines, 1)
	got, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 0, exit.ExitCode)
}

func TestSupervisor_ReportsLaunchFailure_When_ExecutableMissing(t *testing.T) {
	t.Parallel()

	s := New()
	events, err := s.Start(context.Background(), command.Invocation{Executable: "taskcenter-no-such-binary"})
	require.NoError(t, err)

	lines, exit := collect(t, events)

	assert.Empty(t, lines)
	assert.Equal(t, 1, exit.ExitCode)
	assert.Equal(t, FailedToStart, exit.Outcome)
	assert.ErrorIs(t, exit.Err, ErrLaunchFailed)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, FailedToStart, s.LastOutcome())
}

func TestSupervisor_RejectsSecondStart_When_Running(t *testing.T) {
	t.Parallel()

	s := New()
	events, err := s.Start(context.Background(), sh(`echo ready; sleep 30`))
	require.NoError(t, err)
	waitForLine(t, events, "ready")
	assert.Equal(t, Running, s.State())

	again, err := s.Start(context.Background(), sh(`echo second`))
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, again)

	require.NoError(t, s.Stop())
	_, exit := collect(t, events)

	assert.Equal(t, Killed, exit.Outcome)
	assert.Equal(t, ExitCodeKilled, exit.ExitCode)
	assert.Equal(t, Idle, s.State())
}

func TestSupervisor_StopIsIdempotent_When_StopAlreadyRequested(t *testing.T) {
	t.Parallel()

	s := New()
	events, err := s.Start(context.Background(), sh(`echo ready; sleep 30`))
	require.NoError(t, err)
	waitForLine(t, events, "ready")

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	_, exit := collect(t, events)
	assert.Equal(t, Killed, exit.Outcome)
}

func TestSupervisor_KillsAfterGrace_When_ProcessIgnoresTerm(t *testing.T) {
	t.Parallel()

	s := New(WithStopGrace(100 * time.Millisecond))
	events, err := s.Start(context.Background(), sh(`trap '' TERM; echo ready; sleep 30`))
	require.NoError(t, err)
	waitForLine(t, events, "ready")

	start := time.Now()
	require.NoError(t, s.Stop())
	_, exit := collect(t, events)

	assert.Equal(t, Killed, exit.Outcome)
	assert.Equal(t, ExitCodeKilled, exit.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSupervisor_StopsRun_When_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New()
	events, err := s.Start(ctx, sh(`echo ready; sleep 30`))
	require.NoError(t, err)
	waitForLine(t, events, "ready")

	cancel()
	_, exit := collect(t, events)

	assert.Equal(t, Killed, exit.Outcome)
}

func TestSupervisor_AcceptsNewRun_When_PreviousExited(t *testing.T) {
	t.Parallel()

	s := New()
	for _, word := range []string{"first", "second"} {
		events, err := s.Start(context.Background(), command.Invocation{Executable: "echo", Args: []string{word}})
		require.NoError(t, err)
		lines, exit := collect(t, events)
		assert.Equal(t, []string{word}, lines)
		assert.Equal(t, Completed, exit.Outcome)
	}
}

func TestSupervisor_KeepsReading_When_LineExceedsLimit(t *testing.T) {
	t.Parallel()

	s := New()
	// 2 MiB without a newline on stdout, then a normal stderr line.
	events, err := s.Start(context.Background(), sh(`head -c 2097152 /dev/zero | tr '\0' x; echo; echo tail 1>&2`))
	require.NoError(t, err)

	lines, exit := collect(t, events)
	assert.Contains(t, lines, "[ERROR] tail")
	assert.Equal(t, 0, exit.ExitCode)
}

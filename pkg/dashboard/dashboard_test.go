package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/taskcenter/pkg/manifest"
	"github.com/dkoosis/taskcenter/pkg/supervisor"
)

// fakeRunner replays scripted events instead of launching processes.
type fakeRunner struct {
	mu       sync.Mutex
	running  bool
	started  []string
	stops    int
	runErr   error
	stopErr  error
	events   []supervisor.Event
	blocking bool // leave the stream open so the task looks busy
}

func (f *fakeRunner) RunTask(_ context.Context, task manifest.Task) (<-chan supervisor.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runErr != nil {
		return nil, f.runErr
	}
	f.started = append(f.started, task.Name)
	ch := make(chan supervisor.Event, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	if f.blocking {
		f.running = true
	} else {
		close(ch)
	}
	return ch, nil
}

func (f *fakeRunner) StopCurrentTask() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return f.stopErr
}

func (f *fakeRunner) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func line(s string) supervisor.Event { return supervisor.Event{Kind: supervisor.EventLine, Line: s} }

func exit(code int) supervisor.Event {
	return supervisor.Event{Kind: supervisor.EventExit, ExitCode: code, Outcome: supervisor.Completed}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func echoTask() manifest.Task {
	return manifest.Task{Name: "Echo", Command: []string{"echo", "hello world"}, Dir: "/srv/project"}
}

// pump feeds msg to m and keeps delivering the messages its commands
// produce for event streams until none are left. A command that blocks, as
// listening on an open stream does, ends the pump.
func pump(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(model)
		msg = nil
		if cmd == nil {
			break
		}
		produced := make(chan tea.Msg, 1)
		go func() { produced <- cmd() }()
		select {
		case out := <-produced:
			if batch, ok := out.(eventBatchMsg); ok {
				msg = batch
			}
		case <-time.After(50 * time.Millisecond):
		}
	}
	return m
}

func TestModel_ShowsBanner_When_Created(t *testing.T) {
	t.Parallel()

	m := newModel(context.Background(), &fakeRunner{}, nil)
	assert.Equal(t, []string{msgStarted, msgNoTasks}, m.console.lines())

	m = newModel(context.Background(), &fakeRunner{}, []manifest.Task{echoTask()})
	assert.Equal(t, []string{msgStarted}, m.console.lines())
}

func TestModel_StreamsRunToConsole_When_EnterPressed(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{events: []supervisor.Event{line("hello world"), exit(0)}}
	m := newModel(context.Background(), runner, []manifest.Task{echoTask()})

	m = pump(t, m, keyEnter)

	assert.Equal(t, []string{"Echo"}, runner.started)
	out := m.console.lines()
	assert.Contains(t, out, "=== Echo ===")
	assert.Contains(t, out, "Working directory: /srv/project")
	assert.Contains(t, out, `Command: echo "hello world"`)
	assert.Contains(t, out, "hello world")
	assert.Equal(t, "[DONE] Echo completed successfully.", out[len(out)-1])
	assert.Empty(t, m.current)
	assert.Nil(t, m.events)
}

func TestModel_ReportsExitCode_When_TaskFails(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{events: []supervisor.Event{line("[ERROR] bad input"), exit(2)}}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), keyEnter)

	out := m.console.lines()
	assert.Equal(t, "[DONE] Echo exited with code 2.", out[len(out)-1])
}

func TestModel_ReportsLaunchFailure_When_ExitCarriesError(t *testing.T) {
	t.Parallel()

	failed := supervisor.Event{
		Kind:     supervisor.EventExit,
		ExitCode: 1,
		Outcome:  supervisor.FailedToStart,
		Err:      supervisor.ErrLaunchFailed,
	}
	runner := &fakeRunner{events: []supervisor.Event{failed}}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), keyEnter)

	out := m.console.lines()
	assert.Equal(t, "[ERROR] Failed to start task: launch failed", out[len(out)-1])
}

func TestModel_WarnsAndDoesNotStart_When_TaskAlreadyRunning(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{blocking: true}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), keyEnter)
	require.Equal(t, "Echo", m.current)

	m = pump(t, m, keyEnter)

	assert.Equal(t, []string{"Echo"}, runner.started)
	assert.Equal(t, msgBusy, m.notice)
}

func TestModel_WarnsBusy_When_RunnerRejectsStart(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{runErr: supervisor.ErrAlreadyRunning}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), keyEnter)

	assert.Equal(t, msgBusy, m.notice)
	assert.Empty(t, m.current)
}

func TestModel_ReportsInvalidTask_When_CommandEmpty(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{{Name: "Broken"}}), keyEnter)

	out := m.console.lines()
	assert.True(t, strings.HasPrefix(out[len(out)-1], "[ERROR] Failed to start task:"))
	assert.Empty(t, runner.started)
}

func TestModel_RequestsStop_When_StopPressedWhileRunning(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{blocking: true}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), keyEnter)

	m = pump(t, m, runeKey('s'))

	assert.Equal(t, 1, runner.stops)
	out := m.console.lines()
	assert.Equal(t, msgStopRequest, out[len(out)-1])
}

func TestModel_ReportsStopFailure_When_StopErrors(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{blocking: true, stopErr: errors.New("access denied")}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), keyEnter)

	m = pump(t, m, runeKey('s'))

	out := m.console.lines()
	assert.Equal(t, "[ERROR] Could not stop task: access denied", out[len(out)-1])
}

func TestModel_IgnoresStop_When_Idle(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), runeKey('s'))

	assert.Zero(t, runner.stops)
	assert.Equal(t, []string{msgStarted}, m.console.lines())
}

func TestModel_ClearsConsole_When_ClearPressed(t *testing.T) {
	t.Parallel()

	m := pump(t, newModel(context.Background(), &fakeRunner{}, nil), runeKey('c'))
	assert.Empty(t, m.console.lines())
}

func TestModel_KeepsSelectionInBounds(t *testing.T) {
	t.Parallel()

	tasks := []manifest.Task{{Name: "A"}, {Name: "B"}}
	m := newModel(context.Background(), &fakeRunner{}, tasks)

	m = pump(t, m, keyUp)
	assert.Equal(t, 0, m.selected)
	m = pump(t, m, keyDown)
	m = pump(t, m, runeKey('j'))
	assert.Equal(t, 1, m.selected)
	m = pump(t, m, runeKey('k'))
	assert.Equal(t, 0, m.selected)
}

func TestModel_StopsRunningTask_When_Quitting(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{blocking: true}
	m := pump(t, newModel(context.Background(), runner, []manifest.Task{echoTask()}), keyEnter)

	_, cmd := m.Update(keyCtrlC)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, runner.stops)
}

func TestModel_DefersViewportRefresh_Until_Tick(t *testing.T) {
	t.Parallel()

	m := pump(t, newModel(context.Background(), &fakeRunner{}, []manifest.Task{echoTask()}), tea.WindowSizeMsg{Width: 120, Height: 30})

	next, _ := m.Update(eventBatchMsg{events: []supervisor.Event{line("streamed line")}})
	m = next.(model)
	assert.True(t, m.dirty)
	assert.NotContains(t, m.viewport.View(), "streamed line")

	next, _ = m.Update(tickMsg{})
	m = next.(model)
	assert.False(t, m.dirty)
	assert.Contains(t, m.viewport.View(), "streamed line")
}

func TestModel_DrainsBufferedEvents_When_StreamIsBusy(t *testing.T) {
	t.Parallel()

	const total = defaultBufferLines + 1000
	events := make(chan supervisor.Event, total+1)
	for i := range total {
		events <- line(fmt.Sprintf("line %d", i))
	}
	events <- exit(0)
	close(events)

	m := pump(t, newModel(context.Background(), &fakeRunner{}, []manifest.Task{echoTask()}), tea.WindowSizeMsg{Width: 120, Height: 30})
	m.events = events
	m.current = "Flood"

	start := time.Now()
	updates := 0
	for m.events != nil {
		msg := m.listenEvents()()
		next, _ := m.Update(msg)
		m = next.(model)
		next, _ = m.Update(tickMsg{})
		m = next.(model)
		updates++
	}

	assert.LessOrEqual(t, updates, total/maxEventBatch+2)
	assert.Less(t, time.Since(start), 10*time.Second)
	out := m.console.lines()
	assert.Len(t, out, defaultBufferLines)
	assert.Equal(t, "[DONE] Flood completed successfully.", out[len(out)-1])
	assert.Contains(t, m.viewport.View(), "[DONE] Flood completed successfully.")
}

func TestModel_View_RendersListAndStatus(t *testing.T) {
	t.Parallel()

	tasks := []manifest.Task{echoTask(), {Name: "Build Report", Description: "Run build_report.py", Source: manifest.SourceDiscovered}}
	m := pump(t, newModel(context.Background(), &fakeRunner{}, tasks), tea.WindowSizeMsg{Width: 120, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Tasks (2)")
	assert.Contains(t, view, "Echo")
	assert.Contains(t, view, "Build Report")
	assert.Contains(t, view, "Ready")
	assert.Contains(t, view, msgStarted)
}

func TestModel_View_ShowsEmptyList_When_NoTasks(t *testing.T) {
	t.Parallel()

	m := pump(t, newModel(context.Background(), &fakeRunner{}, nil), tea.WindowSizeMsg{Width: 100, Height: 20})

	assert.Contains(t, m.View(), msgEmptyList)
	assert.Contains(t, m.View(), "Tasks (0)")
}

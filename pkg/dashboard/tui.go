// Package dashboard is the task center front end: an interactive terminal UI
// and a plain streaming mode for non-interactive output.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/taskcenter/pkg/command"
	"github.com/dkoosis/taskcenter/pkg/manifest"
	"github.com/dkoosis/taskcenter/pkg/supervisor"
	"github.com/dkoosis/taskcenter/taskcenter"
)

// activeTheme is the compiled theme used by the dashboard.
// Set via SetTheme before calling Run.
var activeTheme *CompiledTheme

func init() {
	activeTheme = DefaultDashboardTheme().Compile()
}

// SetTheme sets the active dashboard theme.
func SetTheme(theme *DashboardTheme) {
	if theme != nil {
		activeTheme = theme.Compile()
	}
}

// Messages shown in the console and status line.
const (
	msgStarted      = "Task center started."
	msgNoTasks      = "No tasks were found. Add scripts or update tasks.json."
	msgBusy         = "A task is already running. Stop it first."
	msgStopRequest  = "[INFO] Stop requested. Terminating task..."
	msgStopFailed   = "[ERROR] Could not stop task: %v"
	msgStartFailed  = "[ERROR] Failed to start task: %v"
	msgEmptyList    = "No tasks found."
	noticeLifetime  = 4 * time.Second
	spinnerFallback = 120 * time.Millisecond

	// maxEventBatch caps how many buffered events one update drains.
	maxEventBatch = 512
)

// Runner is the part of the task center the dashboard drives.
type Runner interface {
	RunTask(ctx context.Context, task manifest.Task) (<-chan supervisor.Event, error)
	StopCurrentTask() error
	Running() bool
}

// Run launches the interactive dashboard and blocks until the user quits.
// A task still running at that point is asked to stop.
func Run(ctx context.Context, runner Runner, tasks []manifest.Task) error {
	program := tea.NewProgram(newModel(ctx, runner, tasks), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Run   key.Binding
	Stop  key.Binding
	Clear key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Run:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Stop:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() string {
	parts := make([]string, 0, 6)
	for _, b := range []key.Binding{k.Up, k.Down, k.Run, k.Stop, k.Clear, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

type model struct {
	ctx    context.Context
	runner Runner
	tasks  []manifest.Task
	keys   keyMap

	selected int
	console  *console
	viewport viewport.Model

	events  <-chan supervisor.Event
	current string // name of the running task
	frame   int
	dirty   bool // console changed since the viewport was last filled

	notice   string
	noticeAt time.Time

	ready     bool
	width     int
	height    int
	listWidth int
}

func newModel(ctx context.Context, runner Runner, tasks []manifest.Task) model {
	m := model{
		ctx:      ctx,
		runner:   runner,
		tasks:    tasks,
		keys:     defaultKeyMap(),
		console:  newConsole(defaultBufferLines, activeTheme.Lines),
		viewport: viewport.New(0, 0),
	}
	m.console.add(msgStarted)
	if len(tasks) == 0 {
		m.console.add(msgNoTasks)
	}
	m.refreshViewport()
	return m
}

type tickMsg struct{}

// eventBatchMsg carries the events that were ready on the stream. closed
// is set once the stream has ended.
type eventBatchMsg struct {
	events []supervisor.Event
	closed bool
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	interval := time.Duration(activeTheme.SpinnerInterval) * time.Millisecond
	if interval <= 0 {
		interval = spinnerFallback
	}
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{} })
}

// listenEvents waits for the next event of the current run, then drains
// whatever else is already buffered.
func (m model) listenEvents() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventBatchMsg{closed: true}
		}
		batch := eventBatchMsg{events: []supervisor.Event{ev}}
		for len(batch.events) < maxEventBatch {
			select {
			case ev, ok := <-events:
				if !ok {
					batch.closed = true
					return batch
				}
				batch.events = append(batch.events, ev)
			default:
				return batch
			}
		}
		return batch
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listWidth = listWidthFor(m.tasks, m.width)
		m.viewport.Width = max(m.width-m.listWidth-6, 10)
		m.viewport.Height = max(m.height-6, 3)
		m.ready = true
		m.refreshViewport()
	case tickMsg:
		m.frame++
		if m.notice != "" && time.Since(m.noticeAt) > noticeLifetime {
			m.notice = ""
		}
		if m.dirty {
			m.refreshViewport()
		}
		return m, m.tick()
	case eventBatchMsg:
		return m.handleEvents(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.runner.Running() {
			_ = m.runner.StopCurrentTask()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Run):
		return m.runSelected()
	case key.Matches(msg, m.keys.Stop):
		m.stop()
	case key.Matches(msg, m.keys.Clear):
		m.console.clear()
		m.refreshViewport()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) runSelected() (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return m, nil
	}
	if m.events != nil || m.runner.Running() {
		m.flash(msgBusy)
		return m, nil
	}

	task := m.tasks[m.selected]
	inv, err := command.Build(task)
	if err != nil {
		m.appendLine(fmt.Sprintf(msgStartFailed, err))
		return m, nil
	}

	m.appendLine("")
	m.appendLine(fmt.Sprintf("=== %s ===", task.Name))
	m.appendLine("Working directory: " + task.Dir)
	m.appendLine("Command: " + inv.String())
	m.appendLine("")

	events, err := m.runner.RunTask(m.ctx, task)
	if errors.Is(err, supervisor.ErrAlreadyRunning) {
		m.flash(msgBusy)
		return m, nil
	}
	if err != nil {
		m.appendLine(fmt.Sprintf(msgStartFailed, err))
		return m, nil
	}

	m.events = events
	m.current = task.Name
	return m, m.listenEvents()
}

func (m *model) stop() {
	if m.events == nil && !m.runner.Running() {
		return
	}
	m.appendLine("")
	m.appendLine(msgStopRequest)
	if err := m.runner.StopCurrentTask(); err != nil {
		m.appendLine(fmt.Sprintf(msgStopFailed, err))
	}
}

// handleEvents writes a batch of run events to the console. The viewport
// catches up on the next tick, or right away once the stream closes.
func (m model) handleEvents(batch eventBatchMsg) (tea.Model, tea.Cmd) {
	for _, ev := range batch.events {
		switch ev.Kind {
		case supervisor.EventLine:
			m.console.add(ev.Line)
		case supervisor.EventExit:
			if ev.Err != nil {
				m.console.add(fmt.Sprintf(msgStartFailed, ev.Err))
			} else {
				m.console.add("")
				m.console.add(taskcenter.CompletionMessage(m.current, ev.ExitCode))
			}
		}
		m.dirty = true
	}
	if batch.closed {
		m.events = nil
		m.current = ""
		m.refreshViewport()
		return m, nil
	}
	return m, m.listenEvents()
}

func (m *model) flash(notice string) {
	m.notice = notice
	m.noticeAt = time.Now()
}

func (m *model) appendLine(line string) {
	m.console.add(line)
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	m.viewport.SetContent(m.console.render())
	m.viewport.GotoBottom()
	m.dirty = false
}

func (m model) View() string {
	if !m.ready {
		return "Loading task center..."
	}

	titleText := strings.TrimSpace(activeTheme.TitleIcon + " " + activeTheme.TitleText)
	title := activeTheme.TitleStyle.Width(m.width).Render(titleText)

	contentHeight := max(m.height-4, 3)

	list := fitHeight(m.renderList(), contentHeight)
	listPanel := activeTheme.TaskListStyle.Width(m.listWidth).Render(list)

	consolePanel := activeTheme.ConsoleStyle.
		Width(max(m.width-m.listWidth-4, 10)).
		Render(fitHeight(m.viewport.View(), contentHeight))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, consolePanel)
	return lipgloss.JoinVertical(lipgloss.Left, title, panels, m.statusLine())
}

func (m model) renderList() string {
	header := activeTheme.ListTitleStyle.Render(fmt.Sprintf("Tasks (%d)", len(m.tasks)))
	if len(m.tasks) == 0 {
		return header + "\n" + activeTheme.DescriptionStyle.Render(msgEmptyList)
	}
	rows := make([]string, len(m.tasks))
	for i, task := range m.tasks {
		rows[i] = listRow(task, i == m.selected, m.listWidth-4)
	}
	return header + "\n" + strings.Join(rows, "\n")
}

func (m model) statusLine() string {
	var status string
	if m.current != "" {
		frames := activeTheme.SpinnerFrames
		status = activeTheme.StatusBusyStyle.Render(fmt.Sprintf("%s Running: %s", frames[m.frame%len(frames)], m.current))
	} else {
		status = activeTheme.StatusReadyStyle.Render(activeTheme.Icons.Ready + " Ready")
	}
	if m.notice != "" {
		status += "  " + activeTheme.NoticeStyle.Render(m.notice)
	}
	return status + "  " + activeTheme.HelpStyle.Render(m.keys.help())
}

// fitHeight pads or truncates s to exactly n lines.
func fitHeight(s string, n int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < n {
		lines = append(lines, "")
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

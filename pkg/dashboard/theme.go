package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

// DashboardTheme holds all visual styling for the dashboard TUI.
type DashboardTheme struct {
	// Colors
	Colors DashboardColors `yaml:"colors"`

	// Icons for status indicators
	Icons DashboardIcons `yaml:"icons"`

	// Title bar
	Title DashboardTitleStyle `yaml:"title"`

	// Spinner shown in the status line while a task runs
	Spinner DashboardSpinnerConfig `yaml:"spinner"`
}

// DashboardColors defines the color palette for the dashboard.
type DashboardColors struct {
	Primary   string `yaml:"primary"`   // Main accent (title, selected, borders)
	Success   string `yaml:"success"`   // [DONE] lines
	Error     string `yaml:"error"`     // [ERROR] lines
	Progress  string `yaml:"progress"`  // [PROGRESS] lines, running status
	Info      string `yaml:"info"`      // [INFO] lines
	Muted     string `yaml:"muted"`     // Descriptions, help
	Text      string `yaml:"text"`      // Plain output
	Border    string `yaml:"border"`    // Border color
	Highlight string `yaml:"highlight"` // Selected item background
}

// DashboardIcons defines the icons used in the dashboard.
type DashboardIcons struct {
	Ready    string `yaml:"ready"`    // Status line when idle
	Select   string `yaml:"select"`   // Selected item marker
	Discover string `yaml:"discover"` // Marks tasks found on disk rather than in the manifest
}

// DashboardTitleStyle defines the title bar appearance.
type DashboardTitleStyle struct {
	Text       string `yaml:"text"`       // Title text
	Icon       string `yaml:"icon"`       // Title icon/emoji
	Background string `yaml:"background"` // Title background color (uses Primary if empty)
}

// DashboardSpinnerConfig defines spinner animation settings.
type DashboardSpinnerConfig struct {
	Frames   string `yaml:"frames"`   // Space-separated spinner frames
	Interval int    `yaml:"interval"` // Milliseconds between frames
}

// CompiledTheme holds pre-built lipgloss styles from a DashboardTheme.
type CompiledTheme struct {
	TitleStyle       lipgloss.Style
	ListTitleStyle   lipgloss.Style
	TaskListStyle    lipgloss.Style
	SelectedStyle    lipgloss.Style
	UnselectedStyle  lipgloss.Style
	DescriptionStyle lipgloss.Style
	ConsoleStyle     lipgloss.Style
	StatusReadyStyle lipgloss.Style
	StatusBusyStyle  lipgloss.Style
	NoticeStyle      lipgloss.Style
	HelpStyle        lipgloss.Style

	// Lines colors console output by LineKind.
	Lines LineStyles

	Icons DashboardIcons

	TitleText string
	TitleIcon string

	SpinnerFrames   []string
	SpinnerInterval int
}

// DefaultDashboardTheme returns the default dashboard theme configuration.
func DefaultDashboardTheme() *DashboardTheme {
	return &DashboardTheme{
		Colors: DashboardColors{
			Primary:   "#7D56F4", // Purple
			Success:   "#04B575", // Green
			Error:     "#FF5F56", // Red
			Progress:  "#FFBD2E", // Yellow/Orange
			Info:      "#0077B6", // Blue
			Muted:     "#626262", // Gray
			Text:      "#CCCCCC", // Light gray
			Border:    "#444444", // Dark gray
			Highlight: "#7D56F4", // Purple (same as primary)
		},
		Icons: DashboardIcons{
			Ready:    "\u25cf", // ●
			Select:   "\u25b6", // ▶
			Discover: "\u2022", // •
		},
		Title: DashboardTitleStyle{
			Text: "Task Center",
			Icon: "\u26a1", // ⚡
		},
		Spinner: DashboardSpinnerConfig{
			Frames:   "\u280b \u2819 \u2838 \u2834 \u2826 \u2807", // ⠋ ⠙ ⠸ ⠴ ⠦ ⠇
			Interval: 120,
		},
	}
}

// Compile builds lipgloss styles from the theme configuration.
func (t *DashboardTheme) Compile() *CompiledTheme {
	ct := &CompiledTheme{}

	primary := lipgloss.Color(t.Colors.Primary)
	muted := lipgloss.Color(t.Colors.Muted)
	text := lipgloss.Color(t.Colors.Text)
	border := lipgloss.Color(t.Colors.Border)
	highlight := lipgloss.Color(t.Colors.Highlight)
	titleBg := primary
	if t.Title.Background != "" {
		titleBg = lipgloss.Color(t.Title.Background)
	}

	ct.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(titleBg).
		Padding(0, 1)

	ct.ListTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(border)

	ct.TaskListStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	ct.SelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(highlight)

	ct.UnselectedStyle = lipgloss.NewStyle().Foreground(text)
	ct.DescriptionStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)

	ct.ConsoleStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primary).
		Padding(0, 1)

	ct.StatusReadyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Success)).Bold(true)
	ct.StatusBusyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Progress)).Bold(true)
	ct.NoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Progress))
	ct.HelpStyle = lipgloss.NewStyle().Foreground(muted)

	ct.Lines = newLineStyles(t.Colors)

	ct.Icons = t.Icons
	ct.TitleText = t.Title.Text
	ct.TitleIcon = t.Title.Icon

	ct.SpinnerFrames = parseSpinnerFrames(t.Spinner.Frames)
	ct.SpinnerInterval = t.Spinner.Interval
	if ct.SpinnerInterval <= 0 {
		ct.SpinnerInterval = 120
	}

	return ct
}

// parseSpinnerFrames splits space-separated spinner characters.
func parseSpinnerFrames(s string) []string {
	var frames []string
	for _, r := range s {
		if r != ' ' {
			frames = append(frames, string(r))
		}
	}
	if len(frames) == 0 {
		return []string{"\u280b", "\u2819", "\u2838", "\u2834", "\u2826", "\u2807"}
	}
	return frames
}

package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LineKind classifies a console line by the marker it carries.
type LineKind int

const (
	LinePlain LineKind = iota
	LineError
	LineSuccess
	LineProgress
	LineInfo
)

func (k LineKind) String() string {
	switch k {
	case LineError:
		return "error"
	case LineSuccess:
		return "success"
	case LineProgress:
		return "progress"
	case LineInfo:
		return "info"
	default:
		return "plain"
	}
}

// markers is checked in order; the first marker found anywhere in the line wins.
var markers = []struct {
	token string
	kind  LineKind
}{
	{"[ERROR]", LineError},
	{"[DONE]", LineSuccess},
	{"[PROGRESS]", LineProgress},
	{"[INFO]", LineInfo},
}

// Classify returns the kind of line, used to pick its color.
func Classify(line string) LineKind {
	for _, m := range markers {
		if strings.Contains(line, m.token) {
			return m.kind
		}
	}
	return LinePlain
}

// LineStyles colors console lines by kind.
type LineStyles struct {
	Error    lipgloss.Style
	Success  lipgloss.Style
	Progress lipgloss.Style
	Info     lipgloss.Style
	Plain    lipgloss.Style
}

func newLineStyles(c DashboardColors) LineStyles {
	return LineStyles{
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Error)).Bold(true),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.Success)).Bold(true),
		Progress: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Progress)),
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Info)),
		Plain:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Text)),
	}
}

// For returns the style for kind.
func (s LineStyles) For(kind LineKind) lipgloss.Style {
	switch kind {
	case LineError:
		return s.Error
	case LineSuccess:
		return s.Success
	case LineProgress:
		return s.Progress
	case LineInfo:
		return s.Info
	default:
		return s.Plain
	}
}

// Render colors line according to its classification.
func (s LineStyles) Render(line string) string {
	return s.For(Classify(line)).Render(line)
}

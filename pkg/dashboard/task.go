package dashboard

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/taskcenter/pkg/manifest"
)

// listRow renders one task in the list pane: a name line and, when present,
// a description line. Both are truncated to width display cells.
func listRow(task manifest.Task, selected bool, width int) string {
	if width < 8 {
		width = 8
	}

	marker := "  "
	if selected {
		marker = activeTheme.Icons.Select + " "
	}
	name := task.Name
	if task.Source == manifest.SourceDiscovered {
		name = fmt.Sprintf("%s %s", name, activeTheme.Icons.Discover)
	}
	name = runewidth.Truncate(marker+name, width, "…")

	var line string
	if selected {
		line = activeTheme.SelectedStyle.Render(runewidth.FillRight(name, width))
	} else {
		line = activeTheme.UnselectedStyle.Render(name)
	}

	if task.Description == "" {
		return line
	}
	desc := runewidth.Truncate("  "+task.Description, width, "…")
	return line + "\n" + activeTheme.DescriptionStyle.Render(desc)
}

// listWidthFor sizes the list pane to its widest row, within bounds.
func listWidthFor(tasks []manifest.Task, total int) int {
	widest := runewidth.StringWidth("No tasks found.")
	for _, t := range tasks {
		if w := runewidth.StringWidth(t.Name) + 4; w > widest {
			widest = w
		}
		if w := runewidth.StringWidth(t.Description) + 2; w > widest {
			widest = w
		}
	}
	width := widest + 4
	if width < 24 {
		width = 24
	}
	if limit := total / 3; width > limit && limit >= 24 {
		width = limit
	}
	return width
}

package dashboard

import "strings"

// defaultBufferLines bounds the console; older lines are dropped first.
const defaultBufferLines = 50000

// console is the bounded line buffer behind the output pane. Lines are
// styled once on arrival so rendering is a join, not a re-style.
type console struct {
	max    int
	styles LineStyles
	values []string
	styled []string
}

func newConsole(max int, styles LineStyles) *console {
	if max <= 0 {
		max = 1
	}
	return &console{max: max, styles: styles}
}

// add appends text, splitting embedded newlines into separate lines.
func (c *console) add(text string) {
	for _, line := range strings.Split(text, "\n") {
		c.values = append(c.values, line)
		c.styled = append(c.styled, c.styles.Render(line))
	}
	if drop := len(c.values) - c.max; drop > 0 {
		c.values = c.values[drop:]
		c.styled = c.styled[drop:]
	}
}

func (c *console) clear() {
	c.values = nil
	c.styled = nil
}

func (c *console) lines() []string {
	return append([]string(nil), c.values...)
}

// render joins the styled lines for the viewport.
func (c *console) render() string {
	return strings.Join(c.styled, "\n")
}

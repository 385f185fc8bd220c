package command

import (
	"strings"
	"unicode"
)

// Quote renders one argument for a command line. Arguments containing
// whitespace or a double quote are wrapped in double quotes. Inside the
// quotes an embedded quote becomes \" and any backslashes that precede a
// quote, or the closing quote, are doubled. The empty string becomes "".
// Anything else is returned unchanged.
func Quote(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsFunc(arg, needsQuoting) {
		return arg
	}

	var b strings.Builder
	b.Grow(len(arg) + 2)
	b.WriteByte('"')
	slashes := 0
	for _, r := range arg {
		switch r {
		case '\\':
			slashes++
			continue
		case '"':
			b.WriteString(strings.Repeat(`\`, 2*slashes+1))
		default:
			b.WriteString(strings.Repeat(`\`, slashes))
		}
		b.WriteRune(r)
		slashes = 0
	}
	b.WriteString(strings.Repeat(`\`, 2*slashes))
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(r rune) bool {
	return r == '"' || unicode.IsSpace(r)
}

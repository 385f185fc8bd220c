package manifest

import (
	"path/filepath"
	"regexp"
	"strings"
)

// placeholderPattern matches the recognized tokens regardless of case.
var placeholderPattern = regexp.MustCompile(`(?i)\{(python|project_dir|assets_dir)\}`)

// Placeholders holds the runtime values substituted into manifest strings.
type Placeholders struct {
	Python     string
	ProjectDir string
	AssetsDir  string
}

// NewPlaceholders derives the placeholder values for a project directory.
func NewPlaceholders(projectDir, interpreter string) Placeholders {
	return Placeholders{
		Python:     interpreter,
		ProjectDir: projectDir,
		AssetsDir:  filepath.Join(projectDir, "assets"),
	}
}

// Expand replaces every {python}, {project_dir} and {assets_dir} token in s.
// Tokens are matched case-insensitively and replaced in a single pass, so the
// result does not depend on the order tokens appear in.
func (p Placeholders) Expand(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(token string) string {
		switch strings.ToLower(token) {
		case "{python}":
			return p.Python
		case "{project_dir}":
			return p.ProjectDir
		case "{assets_dir}":
			return p.AssetsDir
		default:
			return token
		}
	})
}

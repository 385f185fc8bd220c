package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultScriptExt is the extension of scripts picked up from disk.
	DefaultScriptExt = ".py"
	// DefaultLauncherScript is the legacy launcher script, never listed as a task.
	DefaultLauncherScript = "task_center.py"
)

// PrettyName turns a script stem into a display name: underscores become
// spaces, camel-case boundaries are split and every word is capitalized.
// "build_report" and "BuildReport" both become "Build Report".
func PrettyName(stem string) string {
	spaced := strings.TrimSpace(strings.ReplaceAll(stem, "_", " "))

	var b strings.Builder
	for i, r := range spaced {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	// cases.Caser keeps state between calls and is not safe for concurrent use.
	caser := cases.Title(language.English)
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = caser.String(w)
	}
	if len(words) == 0 {
		return stem
	}
	return strings.Join(words, " ")
}

// scriptName finds the script a command runs: the last whitespace-separated
// token, searching from the end of the command, that ends in ext once quotes
// are trimmed. The base name is returned lower-cased, or "" if none matches.
//
// This is a heuristic. It sees "python tools/x.py" inside a shell string but
// knows nothing about shell quoting or about scripts reached indirectly.
func scriptName(command []string, ext string) string {
	ext = strings.ToLower(ext)
	for i := len(command) - 1; i >= 0; i-- {
		tokens := strings.Fields(command[i])
		for j := len(tokens) - 1; j >= 0; j-- {
			clean := strings.Trim(tokens[j], `"'`)
			if clean == "" || !strings.HasSuffix(strings.ToLower(clean), ext) {
				continue
			}
			return strings.ToLower(path.Base(strings.ReplaceAll(clean, `\`, "/")))
		}
	}
	return ""
}

// discoverScripts lists script files directly inside projectDir, sorted by
// file name, skipping the launcher script and any name in known (lower-cased).
func discoverScripts(projectDir, ext, launcher, interpreter string, known map[string]bool) ([]Task, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", projectDir, err)
	}

	launcher = strings.ToLower(launcher)
	var tasks []Task
	for _, entry := range entries {
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		lower := strings.ToLower(name)
		if lower == launcher || known[lower] {
			continue
		}
		// Stat follows symlinks so a linked script still counts.
		info, err := os.Stat(filepath.Join(projectDir, name))
		if err != nil || info.IsDir() {
			continue
		}
		tasks = append(tasks, Task{
			Name:        PrettyName(strings.TrimSuffix(name, filepath.Ext(name))),
			Description: "Run " + name,
			Command:     []string{interpreter, name},
			Dir:         projectDir,
			Source:      SourceDiscovered,
			Script:      lower,
		})
	}
	return tasks, nil
}

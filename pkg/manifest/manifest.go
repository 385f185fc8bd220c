package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultManifestName is the manifest file looked up in the project directory.
const DefaultManifestName = "tasks.json"

// ErrInvalidEntry marks a manifest entry that was dropped.
var ErrInvalidEntry = errors.New("invalid task entry")

// ParseError reports a manifest file that is not valid JSON or does not have
// the expected {"tasks": [...]} shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse manifest %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// entryError explains why a single entry was dropped.
type entryError struct {
	Index  int
	Reason string
}

func (e *entryError) Error() string {
	return fmt.Sprintf("task entry %d: %s", e.Index, e.Reason)
}

func (e *entryError) Unwrap() error { return ErrInvalidEntry }

// entryParser turns raw manifest entries into tasks.
type entryParser struct {
	projectDir   string
	placeholders Placeholders
	shell        []string
	scriptExt    string
	logger       *log.Logger
}

// decodeEntries extracts the raw task objects from manifest bytes. Elements
// of the tasks array that are not JSON objects are skipped.
func decodeEntries(data []byte) ([]map[string]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	raw, ok := top["tasks"]
	if !ok {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("\"tasks\" is not an array: %w", err)
	}

	entries := make([]map[string]json.RawMessage, 0, len(elems))
	for _, elem := range elems {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
			continue
		}
		entries = append(entries, obj)
	}
	return entries, nil
}

// parse builds a Task from one manifest entry.
func (p entryParser) parse(index int, obj map[string]json.RawMessage) (Task, error) {
	name, _ := stringField(obj, "name")
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, &entryError{Index: index, Reason: "missing name"}
	}

	description, _ := stringField(obj, "description")

	command, err := p.parseCommand(obj["command"])
	if err != nil {
		return Task{}, &entryError{Index: index, Reason: err.Error()}
	}

	rawDir, ok := stringField(obj, "cwd")
	if !ok {
		rawDir = "{project_dir}"
	}

	return Task{
		Name:        name,
		Description: strings.TrimSpace(description),
		Command:     command,
		Dir:         p.resolveDir(rawDir),
		Source:      SourceManifest,
		Script:      scriptName(command, p.scriptExt),
	}, nil
}

// parseCommand accepts either an array of scalars, each expanded on its own,
// or a single string that is wrapped into a shell invocation. Blank array
// elements are skipped.
func (p entryParser) parseCommand(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, errors.New("missing command")
	}

	switch trimmed[0] {
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return nil, fmt.Errorf("command array: %w", err)
		}
		command := make([]string, 0, len(parts))
		for i, rawPart := range parts {
			part, ok := scalarText(rawPart)
			if !ok {
				return nil, fmt.Errorf("command element %d is not a scalar", i)
			}
			if strings.TrimSpace(part) == "" {
				continue
			}
			command = append(command, p.placeholders.Expand(part))
		}
		if len(command) == 0 {
			return nil, errors.New("empty command")
		}
		return command, nil
	case '"':
		var line string
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("command string: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			return nil, errors.New("empty command")
		}
		command := make([]string, 0, len(p.shell)+1)
		command = append(command, p.shell...)
		return append(command, p.placeholders.Expand(line)), nil
	default:
		return nil, fmt.Errorf("command has unsupported type %q", trimmed[:1])
	}
}

// resolveDir expands placeholders, anchors relative paths at the project
// directory and falls back to the project directory when the result is not an
// existing directory.
func (p entryParser) resolveDir(raw string) string {
	dir := p.placeholders.Expand(raw)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.projectDir, dir)
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		p.logger.Debug("working directory missing, using project dir", "cwd", dir)
		return p.projectDir
	}
	return dir
}

// stringField reads a scalar-valued key as text. Missing keys and object or
// array values report false.
func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	return scalarText(raw)
}

// scalarText returns the text of a JSON scalar. Numbers and booleans keep
// their literal spelling and null reads as blank.
func scalarText(raw json.RawMessage) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	case 'n':
		return "", true
	default:
		return trimmed, true
	}
}

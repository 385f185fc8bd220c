// Package manifest resolves the set of launchable tasks for a project
// directory from a tasks.json manifest and from scripts found on disk.
package manifest

// Source records where a task came from.
type Source int

const (
	// SourceManifest marks a task declared in the manifest file.
	SourceManifest Source = iota
	// SourceDiscovered marks a task synthesized from a script on disk.
	SourceDiscovered
)

func (s Source) String() string {
	switch s {
	case SourceManifest:
		return "manifest"
	case SourceDiscovered:
		return "discovered"
	default:
		return "unknown"
	}
}

// Task describes one launchable unit. Values are created by the Resolver
// and never mutated afterwards.
type Task struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Command     []string `json:"command"`
	Dir         string   `json:"cwd"`
	Source      Source   `json:"-"`

	// Script is the lower-cased file name of the script the task runs, if any.
	// It is the identity key used to suppress duplicate discovered scripts.
	Script string `json:"-"`
}

// Executable returns the first command element, or "" for an empty command.
func (t Task) Executable() string {
	if len(t.Command) == 0 {
		return ""
	}
	return t.Command[0]
}

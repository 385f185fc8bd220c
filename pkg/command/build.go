// Package command turns a task descriptor into a launchable invocation.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dkoosis/taskcenter/pkg/manifest"
)

// ErrInvalidTask is returned when a task has no usable executable.
var ErrInvalidTask = errors.New("invalid task")

// Invocation is a built command line.
//
// Args holds the raw arguments handed to os/exec, which does its own
// quoting per platform. Quoted holds the same arguments quoted for display
// and logs.
type Invocation struct {
	Executable string
	Args       []string
	Quoted     []string
	Dir        string
}

// Build derives the invocation for task. It does no I/O.
func Build(task manifest.Task) (Invocation, error) {
	exe := task.Executable()
	if strings.TrimSpace(exe) == "" {
		return Invocation{}, fmt.Errorf("%w: %q has no executable", ErrInvalidTask, task.Name)
	}

	args := append([]string(nil), task.Command[1:]...)
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}

	return Invocation{
		Executable: exe,
		Args:       args,
		Quoted:     quoted,
		Dir:        task.Dir,
	}, nil
}

// String renders the invocation as a single command line.
func (inv Invocation) String() string {
	if len(inv.Quoted) == 0 {
		return Quote(inv.Executable)
	}
	return Quote(inv.Executable) + " " + strings.Join(inv.Quoted, " ")
}

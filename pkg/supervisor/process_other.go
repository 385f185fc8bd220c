//go:build !unix && !windows

package supervisor

import (
	"errors"
	"os"
	"os/exec"
)

// configureCommand is a no-op where process groups are unavailable.
func configureCommand(cmd *exec.Cmd) {}

func terminateTree(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	if err := proc.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return proc.Kill()
	}
	return nil
}

func killTree(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// exitCodeFromError returns false as WaitStatus is not available here.
func exitCodeFromError(exitErr *exec.ExitError) (int, bool) {
	return 0, false
}

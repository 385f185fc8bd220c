package magetasks

import (
	"io"
	"os"
	"path/filepath"
)

var (
	// ModulePath is the Go module path.
	ModulePath = "github.com/dkoosis/taskcenter"

	// BinPath is the output path for the built binary.
	BinPath = "./bin/taskcenter"

	// MainPackage is the package built into BinPath.
	MainPackage = "./cmd/taskcenter"

	// ProjectRoot is the root directory of the project.
	ProjectRoot string

	// Out receives all task output.
	Out io.Writer = os.Stdout
)

// Initialize sets up the magetasks package.
// Call this from the Magefile init() function.
func Initialize() error {
	var err error
	ProjectRoot, err = os.Getwd()
	if err != nil {
		return err
	}

	binDir := filepath.Join(ProjectRoot, "bin")
	return os.MkdirAll(binDir, 0o750)
}

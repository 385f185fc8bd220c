package magetasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_CreatesBinDir_When_Called(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	require.NoError(t, Initialize())

	info, err := os.Stat(filepath.Join(tmpDir, "bin"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	expectedRoot, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(t, err)
	actualRoot, err := filepath.EvalSymlinks(ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, expectedRoot, actualRoot)
}

func TestLDFlags_StampsVersionPackage(t *testing.T) {
	t.Parallel()

	built := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	flags := LDFlags("v1.2.3", "abc123", built)

	assert.True(t, strings.HasPrefix(flags, "-s -w "))
	assert.Contains(t, flags, "-X 'github.com/dkoosis/taskcenter/internal/version.Version=v1.2.3'")
	assert.Contains(t, flags, "-X 'github.com/dkoosis/taskcenter/internal/version.CommitHash=abc123'")
	assert.Contains(t, flags, "-X 'github.com/dkoosis/taskcenter/internal/version.BuildDate=2026-01-02T02:04:05Z'")
}

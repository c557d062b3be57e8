package cmd

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipwaydev/shipway-cli/internal/pipeline"
)

func TestExitCodeNil(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
}

func TestExitCodePropagatesStepExitCode(t *testing.T) {
	err := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, err)

	wrapped := &pipeline.StageError{Phase: pipeline.PhaseVerified, Err: err}
	assert.Equal(t, 3, ExitCode(wrapped))
}

func TestExitCodePlainError(t *testing.T) {
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestExitCodeStageErrorWithoutExitCode(t *testing.T) {
	err := &pipeline.StageError{Phase: pipeline.PhaseBuilt, Err: errors.New("docker missing")}
	assert.Equal(t, 1, ExitCode(err))
}

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "internal", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, pipeline.DefinitionFileName), []byte("version: \"1\"\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.Chdir(nested))

	found, err := findWorkspaceRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindWorkspaceRootMissing(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.Chdir(t.TempDir()))

	_, err = findWorkspaceRoot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a shipway workspace")
}

func TestInCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.True(t, inCI())

	t.Setenv("CI", "")
	assert.False(t, inCI())
}

package toolchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInstalledFindsPathBinary(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	// sh is on PATH everywhere the pipeline can run.
	assert.True(t, NewInstaller(false).IsInstalled("sh"))
}

func TestIsInstalledMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	assert.False(t, NewInstaller(false).IsInstalled("definitely-not-a-linter"))
}

func TestIsInstalledFindsShipwayBinInstall(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	binDir := filepath.Join(home, ".shipway", "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "some-linter"), []byte("#!/bin/sh\n"), 0755))

	assert.True(t, NewInstaller(false).IsInstalled("some-linter"))
}

func TestModuleFor(t *testing.T) {
	i := NewInstaller(false)

	module, err := i.moduleFor("golangci-lint")
	require.NoError(t, err)
	assert.Equal(t, golangciLintModule, module)

	module, err = i.moduleFor("staticcheck")
	require.NoError(t, err)
	assert.Contains(t, module, "honnef.co/go/tools")

	_, err = i.moduleFor("mystery-linter")
	require.Error(t, err)
}

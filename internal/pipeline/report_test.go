package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportSave(t *testing.T) {
	root := t.TempDir()

	report := newRunReport("congratulator", "main")
	report.recordStage(PhaseToolchainPrepared, time.Now(), nil)
	report.recordStage(PhaseVerified, time.Now(), nil)
	report.Image = "registry.heroku.com/congratulator/worker:abc1234"
	report.finish(PhaseReleased, nil)

	path, err := report.Save(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, RunDirName, report.ID+".json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded RunReport
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "congratulator", loaded.App)
	assert.Equal(t, "main", loaded.Branch)
	assert.Equal(t, "released", loaded.Phase)
	assert.Len(t, loaded.Stages, 2)
	assert.Empty(t, loaded.Error)
}

func TestRunReportIDsAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := newRunReport("congratulator", "main").ID
		assert.False(t, seen[id], "duplicate report id %s", id)
		seen[id] = true
	}
}

func TestConcurrentRunsDoNotOverwriteReports(t *testing.T) {
	root := t.TempDir()

	first := newRunReport("congratulator", "main")
	second := newRunReport("congratulator", "main")
	first.finish(PhaseReleased, nil)
	second.finish(PhaseFailed, ErrVerify)

	firstPath, err := first.Save(root)
	require.NoError(t, err)
	secondPath, err := second.Save(root)
	require.NoError(t, err)

	assert.NotEqual(t, firstPath, secondPath)
	assert.FileExists(t, firstPath)
	assert.FileExists(t, secondPath)
}

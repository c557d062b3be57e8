package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/ws")

	assert.Equal(t, "/ws", cfg.Root)
	assert.Contains(t, cfg.Patterns, "*.go")
	assert.Contains(t, cfg.Patterns, "shipway.yaml")
	assert.Contains(t, cfg.Patterns, "build.yaml")
	assert.Contains(t, cfg.IgnorePatterns, ".git")
	assert.Contains(t, cfg.IgnorePatterns, "Dockerfile.shipway")
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce)
}

func TestMatchesPattern(t *testing.T) {
	w := &Watcher{config: DefaultConfig("/ws")}

	assert.True(t, w.matchesPattern("/ws/main.go"))
	assert.True(t, w.matchesPattern("/ws/sub/deep/handler.go"))
	assert.True(t, w.matchesPattern("/ws/go.mod"))
	assert.True(t, w.matchesPattern("/ws/shipway.yaml"))
	assert.False(t, w.matchesPattern("/ws/README.md"))
	assert.False(t, w.matchesPattern("/ws/main.go.swp"))
}

func TestShouldIgnore(t *testing.T) {
	w := &Watcher{config: DefaultConfig("/ws")}

	assert.True(t, w.shouldIgnore("/ws/.git/HEAD"))
	assert.True(t, w.shouldIgnore("/ws/vendor/mod/file.go"))
	assert.True(t, w.shouldIgnore("/ws/.shipway/runs/abc.json"))
	assert.False(t, w.shouldIgnore("/ws/internal/app/main.go"))
}

func TestWatcherEmitsDebouncedChange(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig(root)
	cfg.Debounce = 20 * time.Millisecond

	w, err := NewWatcher(cfg)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsRunning())

	target := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0644))

	select {
	case change := <-w.Changes():
		assert.Equal(t, target, change.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcherIgnoresUnmatchedFiles(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig(root)
	cfg.Debounce = 20 * time.Millisecond

	w, err := NewWatcher(cfg)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))

	select {
	case change := <-w.Changes():
		t.Fatalf("unexpected change for %s", change.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

// Package watch provides file watching for verification re-runs.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shipwaydev/shipway-cli/internal/manifest"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
)

// Change is a debounced file change under the watched tree.
type Change struct {
	Path      string
	Timestamp time.Time
}

// Config contains configuration for the file watcher.
type Config struct {
	// Root is the directory to watch recursively.
	Root string

	// Patterns are glob patterns to match (e.g. "*.go").
	Patterns []string

	// IgnorePatterns are path components to ignore (e.g. ".git").
	IgnorePatterns []string

	// Debounce is the debounce duration for rapid events.
	Debounce time.Duration
}

// DefaultConfig returns the watcher configuration for a shipway workspace:
// source files plus the two pipeline artifacts.
func DefaultConfig(root string) *Config {
	return &Config{
		Root: root,
		Patterns: []string{
			"*.go",
			"go.mod",
			pipeline.DefinitionFileName,
			"build.yaml",
		},
		IgnorePatterns: []string{
			".git",
			".shipway",
			"vendor",
			"dist",
			manifest.GeneratedFileName,
		},
		Debounce: 200 * time.Millisecond,
	}
}

// Watcher watches a workspace for changes that should re-trigger
// verification.
type Watcher struct {
	config  *Config
	watcher *fsnotify.Watcher
	changes chan Change
	errors  chan error
	done    chan struct{}
	mu      sync.RWMutex
	running bool

	pending   map[string]*time.Timer
	pendingMu sync.Mutex
}

// NewWatcher creates a new file watcher.
func NewWatcher(config *Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:  config,
		watcher: fsWatcher,
		changes: make(chan Change, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.done)

	return w.watcher.Close()
}

// Changes returns the channel of debounced file changes.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			for _, pattern := range w.config.IgnorePatterns {
				if matched, _ := filepath.Match(pattern, info.Name()); matched {
					return filepath.SkipDir
				}
			}
			return w.watcher.Add(path)
		}

		return nil
	})
}

// processEvents drains fsnotify events and emits debounced changes.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// handleEvent filters and debounces a single fsnotify event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	if !w.matchesPattern(event.Name) || w.shouldIgnore(event.Name) {
		return
	}

	w.debounce(Change{Path: event.Name, Timestamp: time.Now()})
}

// debounce collapses rapid events for the same path into one change.
func (w *Watcher) debounce(change Change) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if timer, ok := w.pending[change.Path]; ok {
		timer.Stop()
	}

	w.pending[change.Path] = time.AfterFunc(w.config.Debounce, func() {
		w.pendingMu.Lock()
		delete(w.pending, change.Path)
		w.pendingMu.Unlock()

		select {
		case w.changes <- change:
		default:
			// Channel full, drop event
		}
	})
}

// matchesPattern checks if a file matches any of the watch patterns.
func (w *Watcher) matchesPattern(path string) bool {
	if len(w.config.Patterns) == 0 {
		return true
	}

	base := filepath.Base(path)
	for _, pattern := range w.config.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// shouldIgnore checks if any path component matches an ignore pattern.
func (w *Watcher) shouldIgnore(path string) bool {
	parts := strings.Split(path, string(filepath.Separator))
	for _, part := range parts {
		for _, pattern := range w.config.IgnorePatterns {
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
	}

	return false
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

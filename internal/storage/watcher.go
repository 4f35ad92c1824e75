package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to a single file. Rapid successive writes are
// coalesced into one callback.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()
	logger   *zap.Logger
	pending  *time.Timer
	doneCh   chan struct{}
}

// NewWatcher creates a Watcher for path. The parent directory is created if missing
// because editors often replace files by renaming.
func NewWatcher(path string, debounce time.Duration, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create watch directory: %w", err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		watcher:  fsWatcher,
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		logger:   logger.Named("watcher"),
		doneCh:   make(chan struct{}),
	}, nil
}

// Run delivers change notifications until ctx is cancelled.
func (watcher *Watcher) Run(ctx context.Context) error {
	defer close(watcher.doneCh)
	defer watcher.stopPending()
	defer watcher.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != watcher.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			watcher.schedule()
		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return nil
			}
			watcher.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// Done is closed once Run has returned.
func (watcher *Watcher) Done() <-chan struct{} {
	return watcher.doneCh
}

func (watcher *Watcher) schedule() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.pending != nil {
		watcher.pending.Stop()
	}
	watcher.pending = time.AfterFunc(watcher.debounce, func() {
		watcher.logger.Debug("file changed", zap.String("path", watcher.path))
		if watcher.onChange != nil {
			watcher.onChange()
		}
	})
}

func (watcher *Watcher) stopPending() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.pending != nil {
		watcher.pending.Stop()
		watcher.pending = nil
	}
}

// Package watch notifies the TUI when the archive file changes on disk,
// so a concurrent import shows up without restarting.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chatsieve/chatsieve/internal/tuilog"
)

// debounceDuration coalesces the write bursts sqlite produces during a
// transaction into one event.
const debounceDuration = 2 * time.Second

// DBWatcher monitors the archive file for writes.
type DBWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
	mu      sync.Mutex
	timer   *time.Timer
}

// NewDBWatcher creates a watcher for the given database file.
func NewDBWatcher(path string) (*DBWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &DBWatcher{
		path:    path,
		watcher: fw,
		done:    make(chan struct{}),
	}, nil
}

// Start watches the database's directory and returns a channel that
// receives after each settled burst of writes. The channel is closed
// when the context is canceled or Stop is called.
func (w *DBWatcher) Start(ctx context.Context) (<-chan struct{}, error) {
	// Watch the directory, not the file: sqlite journals and atomic
	// replaces would otherwise detach the watch.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return nil, err
	}
	changes := make(chan struct{}, 1)
	go w.watchLoop(ctx, changes)
	return changes, nil
}

// Stop stops the watcher and releases resources.
func (w *DBWatcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *DBWatcher) watchLoop(ctx context.Context, changes chan<- struct{}) {
	defer close(changes)

	base := filepath.Base(w.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if name != base && name != base+"-wal" && name != base+"-journal" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(debounceDuration, func() {
				select {
				case changes <- struct{}{}:
					tuilog.Log.Debug("archive changed", "path", w.path)
				case <-ctx.Done():
				case <-w.done:
				default:
					// A change is already pending; one signal is enough.
				}
			})
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			tuilog.Log.Error("watcher error", "error", err)

		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

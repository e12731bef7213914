package livereload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the static asset directory and broadcasts reload
// messages through a Hub. Template changes ship inside the binary, so a
// static asset change is the only reload trigger and always forces a full
// page reload.
type Watcher struct {
	dir          string
	hub          *Hub
	watcher      *fsnotify.Watcher
	stopChan     chan struct{}
	debounceTime time.Duration
}

func NewWatcher(dir string, hub *Hub) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve watch dir: %w", err)
	}
	return &Watcher{
		dir:          absDir,
		hub:          hub,
		watcher:      fsw,
		stopChan:     make(chan struct{}),
		debounceTime: 200 * time.Millisecond,
	}, nil
}

// Start begins watching. Events are debounced so editors that write in
// multiple steps produce a single reload.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	slog.Info("Starting livereload watcher", "dir", w.dir)
	go w.watchLoop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)
	if err := w.watcher.Close(); err != nil {
		slog.Error("Error closing file watcher", "error", err)
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	var timer *time.Timer

	fire := func() {
		w.hub.Broadcast(MsgReloadPage)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Static asset change detected", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, fire)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Livereload watcher error", "error", err)
		}
	}
}

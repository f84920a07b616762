package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads on-disk templates into a Registry when their files change,
// so edited or newly added templates become available without a restart.
type Watcher struct {
	dir      string
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewWatcher creates a watcher over the given template directory. The
// directory's current contents are loaded immediately.
func NewWatcher(dir string, registry *Registry, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := registry.LoadDir(dir); err != nil {
		return nil, fmt.Errorf("failed to load template directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch template directory: %w", err)
	}

	return &Watcher{
		dir:      dir,
		registry: registry,
		watcher:  fw,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for template changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("template watcher started", zap.String("dir", w.dir))
}

// Stop stops watching
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("template watcher stopped")
}

func (w *Watcher) watchLoop() {
	// Debounce so editors doing write-then-rename trigger one reload
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isYAML(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				name := event.Name
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, func() {
					w.reload(name)
				})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("template watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read changed template", zap.String("path", path), zap.Error(err))
		return
	}
	if err := w.registry.LoadFile(filepath.Base(path), data); err != nil {
		w.logger.Warn("failed to reload template", zap.String("path", path), zap.Error(err))
	}
}

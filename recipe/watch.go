package recipe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrAlreadyWatching is returned by a second call to Watch.
var ErrAlreadyWatching = errors.New("already watching")

// Sink receives every result the watcher produces, typically to write it.
type Sink func(Result) error

// Watcher re-runs an engine whenever an accepted file is written.
type Watcher struct {
	engine   Engine
	logger   *zap.Logger
	sink     Sink
	dirs     []string
	debounce time.Duration

	watcher *fsnotify.Watcher

	mu       sync.Mutex
	watching bool
	// last holds what the sink was handed per file, so the write it causes
	// does not trigger another run
	last map[string]string
}

// NewWatcher prepares a watcher over dirs. Nothing is watched until Watch.
func NewWatcher(engine Engine, logger *zap.Logger, sink Sink, dirs ...string) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		engine:   engine,
		logger:   logger,
		sink:     sink,
		dirs:     dirs,
		debounce: 100 * time.Millisecond,
		watcher:  fw,
		last:     make(map[string]string),
	}, nil
}

// Watch blocks until ctx is done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return ErrAlreadyWatching
	}
	w.watching = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleFileEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !w.engine.Accept(event.Name) {
		return
	}

	// let a burst of writes settle into one run
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.debounce):
	}

	content, err := os.ReadFile(event.Name)
	if err != nil {
		w.logger.Error("failed to read file", zap.String("file", event.Name), zap.Error(err))
		return
	}

	w.mu.Lock()
	seen := w.last[event.Name] == string(content)
	w.mu.Unlock()
	if seen {
		return
	}

	res, err := w.engine.Run(event.Name)
	w.mu.Lock()
	if err != nil {
		w.last[event.Name] = string(content)
	} else {
		w.last[event.Name] = res.After
	}
	w.mu.Unlock()
	if err != nil {
		w.logger.Error("error applying recipe", zap.String("file", event.Name), zap.Error(err))
	}

	if w.sink == nil {
		return
	}
	if err := w.sink(res); err != nil {
		w.logger.Error("failed to handle result", zap.String("file", event.Name), zap.Error(err))
	}
}

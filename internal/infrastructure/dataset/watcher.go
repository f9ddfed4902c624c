package dataset

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/logging"
)

// Watcher invalidates the load cache when the sample dataset file changes on
// disk.  It watches the containing directory rather than the file itself
// because editors and atomic writes replace the inode, which would silently
// detach a file-level watch.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	done   chan struct{}
	logger logging.Logger
}

// NewWatcher starts watching path and calls onChange after each write,
// create, or rename of that file.  Close releases the watch.
func NewWatcher(path string, onChange func(), logger logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		path:   filepath.Clean(path),
		done:   make(chan struct{}),
		logger: logger.Named("dataset.watcher"),
	}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func()) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Info("sample dataset changed on disk",
				logging.String("path", w.path),
				logging.String("op", event.Op.String()))
			onChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Err(err))
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.  Safe to call once.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

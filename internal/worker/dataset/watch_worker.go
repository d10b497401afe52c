// Package dataset contains the boundary dataset file watcher: when an
// operator drops a new boundaries file in place, the service reloads it
// without a restart.
package dataset

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/usecase"
	"github.com/municipal-boundary-service/internal/worker"
)

// WatchWorker watches the dataset file and triggers a reload after a
// debounce window, so editors that write in several syscalls cause one
// reload, not many.
type WatchWorker struct {
	*worker.BaseWorker
	path     string
	debounce time.Duration
	reloadUC *usecase.ReloadUseCase
}

func NewWatchWorker(
	path string,
	debounce time.Duration,
	reloadUC *usecase.ReloadUseCase,
	logger *zap.Logger,
) *WatchWorker {
	return &WatchWorker{
		BaseWorker: worker.NewBaseWorker("dataset-watcher", logger),
		path:       filepath.Clean(path),
		debounce:   debounce,
		reloadUC:   reloadUC,
	}
}

func (w *WatchWorker) Start(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	// Watch the directory, not the file: replacing the file swaps its
	// inode and a file-level watch would silently die.
	dir := filepath.Dir(w.path)
	if err := fsWatcher.Add(dir); err != nil {
		return err
	}

	w.Logger().Info("Watching dataset file",
		zap.String("path", w.path),
		zap.Duration("debounce", w.debounce),
	)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.StopChan():
			return nil

		case ev, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.Logger().Error("Dataset watcher error", zap.Error(err))

		case <-timerC:
			timer = nil
			timerC = nil

			w.Logger().Info("Dataset file changed, reloading")
			if _, err := w.reloadUC.Reload(ctx); err != nil {
				// Previous version keeps serving; the operator sees the
				// failure here and on the reload metrics.
				w.Logger().Error("Automatic dataset reload failed", zap.Error(err))
			}
		}
	}
}

package pipeline

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs the batch pipeline whenever source files under the
// repository root change. The pipeline itself stays strictly sequential:
// the watcher only decides when the next full run starts, debouncing
// bursts of filesystem events into one run.
type Watcher struct {
	runner   *Runner
	debounce time.Duration
	log      *slog.Logger
}

// NewWatcher creates a watcher around an existing runner.
func NewWatcher(runner *Runner, debounce time.Duration, log *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{runner: runner, debounce: debounce, log: log}
}

// Watch blocks until ctx is cancelled, re-running the pipeline after each
// debounced batch of relevant changes. The initial run happens before
// watching starts.
func (w *Watcher) Watch(ctx context.Context) error {
	if _, err := w.runner.Run(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursively(fw, w.runner.cfg.Repo.Root); err != nil {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			// New directories must join the watch set.
			if event.Op&fsnotify.Create != 0 {
				_ = addDirsRecursively(fw, event.Name)
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)

		case <-pending:
			timer = nil
			if _, err := w.runner.Run(ctx); err != nil {
				w.log.Error("watched run failed", "error", err)
			}
		}
	}
}

// relevant filters events down to source files and directory changes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "__") {
		return false
	}
	ext := filepath.Ext(event.Name)
	return ext == "" || ext == w.runner.backend.SourceExt()
}

// addDirsRecursively registers path and every directory below it.
func addDirsRecursively(fw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "__") || strings.HasPrefix(d.Name(), ".") {
				if p != path {
					return filepath.SkipDir
				}
			}
			return fw.Add(p)
		}
		return nil
	})
}

package build

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/logger"
)

// Watcher reruns a build when any of its input files change.
type Watcher struct {
	// DebouncePeriod collapses bursts of events (editors often write twice).
	DebouncePeriod time.Duration
	Logger         *zap.SugaredLogger

	watcher *fsnotify.Watcher
	inputs  map[string]bool
}

// NewWatcher watches the directories holding paths and reacts to events
// on paths only. Watching the directory survives editors that replace
// files by rename.
func NewWatcher(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		DebouncePeriod: 200 * time.Millisecond,
		watcher:        fw,
		inputs:         make(map[string]bool),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.inputs[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

func (w *Watcher) log() *zap.SugaredLogger {
	if w.Logger != nil {
		return w.Logger
	}
	return logger.ComponentLogger("watch")
}

// Run calls rebuild after each debounced change until ctx is done.
// Rebuild errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log().Debugw("Input changed",
				logger.FieldPath, event.Name,
				"op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.DebouncePeriod)
			} else {
				timer.Reset(w.DebouncePeriod)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := rebuild(ctx); err != nil {
				w.log().Errorw("Rebuild failed", logger.FieldError, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log().Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.inputs[abs]
}

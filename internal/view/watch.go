package view

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// WatchTemplates reloads r whenever an .html file in its override directory
// changes, until ctx is cancelled. Bursts of events are coalesced. onReload,
// if non-nil, runs after each successful reload. It returns immediately when
// r has no override directory.
func WatchTemplates(ctx context.Context, r *Renderer, logger *slog.Logger, onReload func()) error {
	if r.dir == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(r.dir); err != nil {
		return err
	}

	logger.Info("templates: watching", slog.String("dir", r.dir))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDebounce)
			timerCh = timer.C
		} else {
			timer.Reset(reloadDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("templates: watcher stopped")
			return nil

		case <-timerCh:
			if err := r.Reload(); err != nil {
				logger.Warn("templates: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("templates: reloaded", slog.String("dir", r.dir))
			if onReload != nil {
				onReload()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".html") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("templates: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ctxgen/pkg/consolidate"
)

// watchDebounce groups a burst of filesystem events into one rerun.
const watchDebounce = 400 * time.Millisecond

// watchAndRegenerate reruns the consolidation whenever something under
// cfg.Root changes. Every rerun is a full rescan; an in-flight run is
// cancelled before the next one starts. Events for the artifacts this
// tool writes itself and for excluded paths never trigger a rerun.
func watchAndRegenerate(ctx context.Context, cfg *consolidate.Config, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	matcher := consolidate.NewMatcher(cfg)
	if err := addWatchDirs(watcher, cfg.Root, matcher); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Root, err)
	}
	logger.Info("watching for changes", zap.String("root", cfg.Root))

	ignored := watchIgnorer(cfg, matcher)

	// The timer starts drained so the first event can arm it cleanly.
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	armed := false

	// The closure reads rerun at return time, so whichever run is current
	// when the loop exits gets cancelled and joined.
	var rerun *inflight
	defer func() { rerun.stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Lstat(ev.Name); err == nil && info.IsDir() {
					if !matcher.Excluded(relTo(cfg.Root, ev.Name)) {
						_ = watcher.Add(ev.Name)
					}
				}
			}
			logger.Debug("change detected",
				zap.String("path", ev.Name),
				zap.String("op", ev.Op.String()))
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(watchDebounce)
			armed = true
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			armed = false
			rerun.stop()
			rerun = startRun(ctx, cfg, logger)
		}
	}
}

// inflight is one regeneration running in the background.
type inflight struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// stop cancels the run and waits for it to wind down. Safe on nil.
func (r *inflight) stop() {
	if r == nil {
		return
	}
	r.cancel()
	<-r.done
}

func startRun(ctx context.Context, cfg *consolidate.Config, logger *zap.Logger) *inflight {
	runCtx, cancel := context.WithCancel(ctx)
	r := &inflight{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		defer cancel()
		report, err := consolidate.Run(runCtx, cfg, logger)
		if err != nil {
			logger.Error("regeneration failed", zap.Error(err))
			return
		}
		if err := emitReport(report, cfg.Output); err != nil {
			logger.Error("cannot emit report", zap.Error(err))
		}
	}()
	return r
}

// addWatchDirs registers root and every non-excluded subdirectory.
func addWatchDirs(watcher *fsnotify.Watcher, root string, matcher *consolidate.Matcher) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && matcher.Excluded(relTo(root, path)) {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
}

// watchIgnorer builds the event filter: the output artifacts and any
// excluded path must not retrigger a run.
func watchIgnorer(cfg *consolidate.Config, matcher *consolidate.Matcher) func(string) bool {
	outs := make(map[string]struct{}, 2)
	for _, p := range []string{cfg.Output, cfg.TreeOutput} {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			outs[abs] = struct{}{}
		}
	}
	return func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		if _, ok := outs[abs]; ok {
			return true
		}
		return matcher.Excluded(relTo(cfg.Root, abs))
	}
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

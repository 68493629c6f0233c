package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// patternWatcher reports changes to a pattern source. For a file it
// watches the parent directory, since editors often replace files by
// rename; for a directory it watches every .cue file in it.
type patternWatcher struct {
	w    *fsnotify.Watcher
	path string
	dir  bool
}

// newPatternWatcher starts watching path. Events are only delivered
// once Run is called.
func newPatternWatcher(path string) (*patternWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	watchDir := filepath.Dir(abs)
	if info.IsDir() {
		watchDir = abs
	}
	if err := w.Add(watchDir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", watchDir, err)
	}
	return &patternWatcher{w: w, path: abs, dir: info.IsDir()}, nil
}

// relevant reports whether ev changes the watched source.
func (pw *patternWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	if pw.dir {
		return filepath.Ext(name) == ".cue"
	}
	return name == pw.path
}

// Run calls onChange for every relevant event until ctx is done or the
// watcher fails. Returns ctx.Err() on cancellation.
func (pw *patternWatcher) Run(ctx context.Context, logger *slog.Logger, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-pw.w.Events:
			if !ok {
				return nil
			}
			if !pw.relevant(ev) {
				continue
			}
			logger.Debug("pattern source changed", "path", ev.Name, "op", ev.Op.String())
			onChange()
		case err, ok := <-pw.w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}

// Close stops the watcher.
func (pw *patternWatcher) Close() error {
	return pw.w.Close()
}

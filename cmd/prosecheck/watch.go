package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"styleguide/internal/ingest"
)

// watch calls onChange with the paths written since the last call once
// no further event arrived for debounce. Files are watched through their
// directory; directories report their supported files. It returns when
// ctx is done.
func watch(ctx context.Context, targets []string, debounce time.Duration, onChange func([]string), log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	files := map[string]string{}
	dirs := map[string]bool{}
	for _, t := range targets {
		abs, err := filepath.Abs(t)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		dir := abs
		if info.IsDir() {
			dirs[abs] = true
		} else {
			files[abs] = t
			dir = filepath.Dir(abs)
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	pending := map[string]struct{}{}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if orig, ok := files[name]; ok {
				pending[orig] = struct{}{}
			} else if dirs[filepath.Dir(name)] && ingest.Supported(name) {
				pending[name] = struct{}{}
			} else {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			onChange(paths)
		}
	}
}

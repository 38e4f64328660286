// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of events a single save produces.
const reloadDebounce = 100 * time.Millisecond

// Registry holds the current [Catalog] of a pages file.
//
// # Concurrency
//
// Readers never lock: a reload swaps the whole catalog atomically.
type Registry struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Catalog]
}

// NewRegistry loads the pages file. An empty path serves no page.
func NewRegistry(path string, logger *slog.Logger) (*Registry, error) {
	registry := &Registry{path: path, logger: logger}
	if path == "" {
		registry.current.Store(NewCatalog(nil))
		return registry, nil
	}

	catalog, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	registry.current.Store(catalog)
	return registry, nil
}

// Catalog returns the current pages.
func (registry *Registry) Catalog() *Catalog {
	return registry.current.Load()
}

// Reload re-reads the pages file. On failure the previous catalog stays.
func (registry *Registry) Reload() error {
	catalog, err := LoadFile(registry.path)
	if err != nil {
		return err
	}
	registry.current.Store(catalog)
	return nil
}

/*
Watch reloads the pages file whenever it changes, until ctx is cancelled.

The parent directory is watched rather than the file itself, so that editors
replacing the file by rename keep being followed.
*/
func (registry *Registry) Watch(ctx context.Context) error {
	if registry.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pages: failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(registry.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("pages: failed to watch %s: %w", target, err)
	}

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			registry.logger.Warn("pages_watch_error", slog.String("error", err.Error()))

		case <-timer.C:
			if err := registry.Reload(); err != nil {
				registry.logger.Error("pages_reload_failed",
					slog.String("path", target),
					slog.String("error", err.Error()),
				)
				continue
			}
			registry.logger.Info("pages_reloaded",
				slog.String("path", target),
				slog.Int("pages", len(registry.Catalog().Pages())),
			)
		}
	}
}

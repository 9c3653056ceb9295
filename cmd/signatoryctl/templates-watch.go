package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/editor"
)

// watchTemplates reloads templates whenever a file of their directory is
// written, created or renamed. It returns when ctx is done.
func watchTemplates(ctx context.Context, templates *editor.Templates, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := templates.Dir()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("watching editor templates", zap.String("dir", dir))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".html" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := templates.Reload(); err != nil {
				logger.Error("failed to reload templates, keeping the previous set", zap.String("file", event.Name), zap.Error(err))
				continue
			}
			logger.Info("editor templates reloaded", zap.String("file", event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("template watcher error", zap.Error(err))
		case <-ctx.Done():
			return nil
		}
	}
}

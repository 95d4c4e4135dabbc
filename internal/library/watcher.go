package library

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"clipmark/internal/logging"
)

// Watch reports video files appearing in a folder until the context ends.
// The returned channel carries absolute paths and closes on shutdown.
// Writes and creates both count as arrivals: files copied into the folder
// surface as a create followed by writes, and the consumer deduplicates by
// re-scanning.
func Watch(ctx context.Context, dir string, logger *slog.Logger) (<-chan string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	arrivals := make(chan string, 16)
	go func() {
		defer close(arrivals)
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if !IsVideo(event.Name) {
					continue
				}
				select {
				case arrivals <- event.Name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("folder watch error",
					logging.String(logging.FieldComponent, "library"),
					logging.Error(err))
			}
		}
	}()
	return arrivals, nil
}

// Package watch re-analyzes log files as they land in a directory,
// powering the CLI's --watch mode.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay gives writers time to finish before a file is analyzed.
const settleDelay = 250 * time.Millisecond

// Handler is invoked for each settled log file.
type Handler func(path string)

// Watcher observes a directory for new or rewritten log files matching a
// glob pattern.
type Watcher struct {
	dir     string
	pattern string
	logger  *slog.Logger
	handler Handler
}

// New constructs a Watcher. Pattern is matched against base names.
func New(dir, pattern string, logger *slog.Logger, handler Handler) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if pattern == "" {
		pattern = "*"
	}
	return &Watcher{dir: dir, pattern: pattern, logger: logger, handler: handler}
}

// Run blocks until the context is cancelled, invoking the handler for
// every matching file written into the directory. Write bursts for one
// file collapse into a single invocation, and handlers run one at a time
// on the loop goroutine so their output never interleaves.
func (w *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer notifier.Close()

	if err := notifier.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for logs", slog.String("dir", w.dir), slog.String("pattern", w.pattern))

	settled := make(chan string, 16)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range pending {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-settled:
			delete(pending, path)
			w.handler(path)
		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			matched, err := filepath.Match(w.pattern, filepath.Base(event.Name))
			if err != nil || !matched {
				continue
			}
			path := event.Name
			if timer, exists := pending[path]; exists {
				timer.Stop()
			}
			pending[path] = time.AfterFunc(settleDelay, func() {
				select {
				case settled <- path:
				case <-ctx.Done():
				}
			})
		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("error", err))
		}
	}
}

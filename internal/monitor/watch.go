package monitor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watch prints filesystem events on the supervisor conf directory and the
// project's queue log directory until the context is cancelled. Operators
// use it to see the supervisor pick up new stanzas and workers write logs.
func Watch(ctx context.Context, w io.Writer, dirs ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			fmt.Fprintf(w, "skipping %s: %v\n", dir, err)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		fmt.Fprintf(w, "watching %s\n", dir)
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no watchable directories")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "%s %s\n", event.Op, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watch error: %v\n", err)
		}
	}
}

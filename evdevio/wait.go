package evdevio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WaitForNode returns once path exists, watching its directory for the
// device node (or its by-id symlink) to be created. It gives up when ctx ends.
func WaitForNode(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	// The node may have appeared before the watch was in place.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	want := filepath.Clean(path)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watch %s: closed", dir)
			}
			if filepath.Clean(ev.Name) == want && ev.Has(fsnotify.Create) {
				return nil
			}
		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watch %s: closed", dir)
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		case <-ctx.Done():
			return fmt.Errorf("waiting for device node: %w", ctx.Err())
		}
	}
}

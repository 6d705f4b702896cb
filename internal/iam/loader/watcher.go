package loader

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch re-runs the loader whenever the policy file is rewritten. Reloads are
// idempotent, so a partial or repeated event cannot corrupt the stored policy.
func (l *Loader) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory; editors replace the file rather than write in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := l.LoadFile(ctx, path); err != nil {
					l.log.Error("policy reload failed", zap.Error(err))
					continue
				}
				l.log.Info("policy reloaded", zap.String("path", path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.log.Error("policy watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}

package launchconfig

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"go.uber.org/zap"
)

// startWatching watches the configuration directory so listings can be served from memory.
// Failing to watch only disables the cache.
func (r *repository) startWatching(ctx context.Context) error {
	if err := r.fs.MkdirAll(r.dir); err != nil {
		r.logger.Warnw("launch configuration dir unavailable, listing without cache", zap.Error(err))
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.logger.Warnw("creating launch configuration watcher", zap.Error(err))
		return nil
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		r.logger.Warnw("watching launch configuration dir", "dir", r.dir, zap.Error(err))
		return nil
	}

	r.mu.Lock()
	r.watcher = watcher
	r.mu.Unlock()

	r.wg.Add(1)
	go r.watch(watcher)
	return nil
}

func (r *repository) watch(watcher *fsnotify.Watcher) {
	defer r.wg.Done()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if strings.HasSuffix(event.Name, _fileExt) {
				r.invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warnw("launch configuration watcher error", zap.Error(err))
			r.invalidate()
		}
	}
}

func (r *repository) stopWatching(ctx context.Context) error {
	r.mu.Lock()
	watcher := r.watcher
	r.watcher = nil
	r.cached = false
	r.cache = nil
	r.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	r.wg.Wait()
	return err
}

func (r *repository) invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.cached = false
	r.cache = nil
}

func cloneAll(configs []*entity.LaunchConfig) []*entity.LaunchConfig {
	if configs == nil {
		return nil
	}
	out := make([]*entity.LaunchConfig, len(configs))
	for i, c := range configs {
		out[i] = c.Clone()
	}
	return out
}

package content

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher invalidates a Resolver when content files change on disk, so a
// long-running server picks up edits without a restart. Events are
// debounced: editors typically fire several writes per save.
type Watcher struct {
	fsw      *fsnotify.Watcher
	resolver *Resolver
	log      *zap.Logger
	debounce time.Duration
	done     chan struct{}
}

// NewWatcher starts watching dir (and its portfolio subdirectory, if
// present) for JSON changes.
func NewWatcher(resolver *Resolver, dir string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	portfolioDir := filepath.Join(dir, "portfolio")
	if info, err := os.Stat(portfolioDir); err == nil && info.IsDir() {
		if err := fsw.Add(portfolioDir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	w := &Watcher{
		fsw:      fsw,
		resolver: resolver,
		log:      log,
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-fire:
			w.resolver.Invalidate()
			w.log.Info("content changed on disk, cache invalidated")
			timer = nil
			fire = nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("content watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

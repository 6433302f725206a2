package catalog

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads a resolver whenever a catalog file under the watched
// directories changes. Intended for development; production loads once.
type Watcher struct {
	resolver *Resolver
	watcher  *fsnotify.Watcher

	// Reloads receives the path that triggered each successful reload.
	Reloads chan string
	// Errors receives watch and reload failures. A failed reload keeps the
	// resolver's previous index serving.
	Errors chan error

	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// Watch starts watching the given directories for JSON catalog changes.
func Watch(resolver *Resolver, dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	w := &Watcher{
		resolver: resolver,
		watcher:  fsw,
		Reloads:  make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watch loop and waits for it to finish. Reloads and Errors
// are closed by the loop itself, so an in-flight reload can never send on a
// closed channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Reloads)
		close(w.Errors)
		close(w.doneCh)
	}()
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isCatalogFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now
			if err := w.resolver.Reload(); err != nil {
				select {
				case w.Errors <- err:
				default:
				}
				continue
			}
			select {
			case w.Reloads <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isCatalogFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

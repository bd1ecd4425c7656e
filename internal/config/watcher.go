package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration whenever its file changes on disk.
// It watches the containing directory rather than the file itself, since
// most editors replace files by rename and that would drop a direct watch.
// Reloaded configs are delivered on a channel; the consumer decides when
// to apply them.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	base     string
	debounce time.Duration

	reloads chan *Config
	errs    chan error

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle
// before reloading. Zero reloads immediately.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// Watch starts watching the config file at path.
func Watch(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		path:     absPath,
		base:     filepath.Base(absPath),
		debounce: 100 * time.Millisecond,
		reloads:  make(chan *Config, 1),
		errs:     make(chan error, 4),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching config dir: %w", err)
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Reloads returns the channel of freshly loaded configurations. It closes
// when the watcher is closed.
func (w *Watcher) Reloads() <-chan *Config { return w.reloads }

// Errors returns the channel of watch and reload errors. It closes when the
// watcher is closed.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.reloads)
	defer close(w.errs)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.base {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if w.debounce == 0 {
				w.reload()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.sendError(err)
		return
	}
	// Keep only the newest pending config; a consumer that lagged behind
	// has no use for stale intermediates.
	for {
		select {
		case w.reloads <- cfg:
			return
		default:
			select {
			case <-w.reloads:
			default:
			}
		}
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

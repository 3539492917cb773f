package config

import (
	"path/filepath"
	"sync"
	"time"

	"Playground3D/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Watcher reports changes to a single scene file. Editors that save by
// rename are handled by watching the containing directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// run reports the file once no further change has arrived for the debounce
// period, so a truncate followed by a write yields a single event.
func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if fire != nil && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.Events <- w.path:
			case <-w.closeCh:
				return
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

// Reloads re-reads the file on every change and forwards configs that
// validate. Invalid edits are logged and skipped. The channel closes when
// the watcher does.
func (w *Watcher) Reloads() <-chan *Config {
	out := make(chan *Config, 1)
	go func() {
		defer close(out)
		for {
			select {
			case path, ok := <-w.Events:
				if !ok {
					return
				}
				cfg, err := Load(path)
				if err == nil {
					err = cfg.Validate()
				}
				if err != nil {
					logger.Log.Warn("Ignoring scene file change", zap.String("path", path), zap.Error(err))
					continue
				}
				// Only the newest config matters.
				select {
				case <-out:
				default:
				}
				out <- cfg
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Log.Error("Scene watcher failed", zap.Error(err))
			}
		}
	}()
	return out
}

// Copyright © 2024 The Lithium authors

package lsp

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// problemsWatcher republishes diagnostics whenever the lithium tool
// rewrites the problems file.
type problemsWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	delay    time.Duration
	onChange func()

	mu    sync.Mutex
	timer *time.Timer
	wg    sync.WaitGroup
}

// watchProblems watches the folder of the problems file at path.
func (s *Server) watchProblems(path string) (*problemsWatcher, error) {
	return newProblemsWatcher(path, debounceDelay, s.republish)
}

func newProblemsWatcher(path string, delay time.Duration, onChange func()) (*problemsWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &problemsWatcher{
		watcher:  fw,
		path:     path,
		delay:    delay,
		onChange: onChange,
	}
	w.wg.Add(1)
	go w.processEvents()
	log.Debugf("watching %s", path)
	return w, nil
}

func (w *problemsWatcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("problems watcher: %v", err)
		}
	}
}

func (w *problemsWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		defer func() { _ = recover() }()
		w.onChange()
	})
}

// Close stops watching.
func (w *problemsWatcher) Close() error {
	err := w.watcher.Close()
	w.wg.Wait()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

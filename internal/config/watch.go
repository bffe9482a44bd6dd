package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/novaagent/nova/internal/logging"
)

// Watch reloads the config file whenever it changes on disk and calls
// onChange with the freshly parsed config. Editors often emit several
// write events per save, so events are debounced.
//
// Returns a stop function. If the file cannot be watched (e.g. the
// config is embedded-only), Watch logs and returns a no-op stop.
func Watch(path string, onChange func(Config)) func() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warnf("config watch unavailable: %v", err)
		return func() {}
	}

	// Watch the directory, not the file: some editors replace the file
	// on save, which drops a file-level watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logging.Warnf("config watch unavailable: %v", err)
		watcher.Close()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		var timer *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(250*time.Millisecond, func() {
					c, err := LoadFile(path)
					if err != nil {
						logging.Errorf("config reload failed: %v", err)
						return
					}
					logging.Infof("config reloaded from %s", path)
					onChange(c)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if !strings.Contains(err.Error(), "closed") {
					logging.Errorf("config watch error: %v", err)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}
}

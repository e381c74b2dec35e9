package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	errors "github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"
)

// DefaultSettle is how long Watch waits after the last change to an input
// before running.
const DefaultSettle = 500 * time.Millisecond

// Watch runs cfg once and then again whenever one of its local inputs
// changes, until ctx is done. Every run's result is passed to onRun. Run
// errors do not stop the watch.
func Watch(ctx context.Context, cfg Config, settle time.Duration, onRun func(*Result, error)) error {
	if settle <= 0 {
		settle = DefaultSettle
	}
	log := cfg.logger()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Log("Could not close watcher: %{err}s", err)
		}
	}()

	// files are matched by name and watched through their directory so
	// replacing a file by rename is seen.
	files := map[string]bool{}
	inputDirs := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range cfg.Inputs {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return errors.Wrapf(err, "stat %s", abs)
		}
		if info.IsDir() {
			inputDirs[abs] = true
			dirs[abs] = true
			continue
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	if len(dirs) == 0 {
		return errors.New("no local inputs to watch")
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return errors.Wrapf(err, "could not watch '%s'", d)
		}
	}

	run := func() {
		res, err := Run(ctx, cfg)
		if err != nil {
			log.Log("Update of %{source}s failed: %{error}s", cfg.Source, err)
		}
		if onRun != nil {
			onRun(res, err)
		}
	}
	run()

	relevant := func(name string) bool {
		abs, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		return files[abs] || inputDirs[filepath.Dir(abs)]
	}

	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !relevant(event.Name) {
				continue
			}
			events.Debug("Input changed: %{event}s", event.String())
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Log("FS err: %{err}s", err)
		case <-timer.C:
			run()
		}
	}
}

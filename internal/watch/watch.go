// Package watch triggers site rebuilds from filesystem changes and optional
// scheduled intervals. Rapid change bursts debounce into a single rebuild.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/giovifav/ssg/internal/logfields"
)

// RebuildFunc performs one site rebuild. Invocations are serialized; a change
// arriving mid-rebuild queues exactly one follow-up run.
type RebuildFunc func(ctx context.Context)

// Watcher rebuilds a site on content changes and optional fixed intervals.
type Watcher struct {
	siteRoot  string
	excludes  []string
	rebuild   RebuildFunc
	debounce  time.Duration
	interval  time.Duration
	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler

	mu      sync.Mutex
	trigger chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the default 500ms debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithInterval adds a scheduled rebuild every d, independent of file changes.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// WithExclude skips events under the given directory (the output tree,
// typically, so rebuilds do not feed themselves).
func WithExclude(dir string) Option {
	return func(w *Watcher) { w.excludes = append(w.excludes, filepath.Clean(dir)) }
}

// New creates a watcher over siteRoot.
func New(siteRoot string, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &Watcher{
		siteRoot: siteRoot,
		rebuild:  rebuild,
		debounce: 500 * time.Millisecond,
		watcher:  fsw,
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the site tree until ctx is done. It returns after the watch
// loops have been set up; rebuilds run on background goroutines.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.siteRoot); err != nil {
		return err
	}

	if w.interval > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		_, err = s.NewJob(
			gocron.DurationJob(w.interval),
			gocron.NewTask(func() { w.fire() }),
			gocron.WithName("scheduled-rebuild"),
		)
		if err != nil {
			return fmt.Errorf("schedule rebuild job: %w", err)
		}
		s.Start()
		w.scheduler = s
	}

	go w.eventLoop(ctx)
	go w.rebuildLoop(ctx)

	slog.Info("Watching for changes", logfields.Path(w.siteRoot))
	return nil
}

// Stop closes the underlying watcher and scheduler.
func (w *Watcher) Stop() {
	_ = w.watcher.Close()
	if w.scheduler != nil {
		_ = w.scheduler.Shutdown()
	}
}

// addRecursive registers root and every non-hidden subdirectory.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if w.excluded(path) {
			return fs.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// hidden reports whether the path's base name starts with a dot.
func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func (w *Watcher) excluded(path string) bool {
	clean := filepath.Clean(path)
	for _, ex := range w.excludes {
		if clean == ex || strings.HasPrefix(clean, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.excluded(event.Name) || hidden(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need their own watch registration.
			if event.Op&fsnotify.Create != 0 {
				_ = w.addRecursive(event.Name)
			}
			slog.Debug("Change detected", logfields.Path(event.Name))
			w.fire()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watch error", logfields.Error(err))
		}
	}
}

// fire queues a rebuild; a pending trigger absorbs further fires.
func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// rebuildLoop debounces triggers into serialized rebuild runs.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
		}

		// Absorb the burst before rebuilding.
		timer := time.NewTimer(w.debounce)
	drain:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-w.trigger:
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.debounce)
			case <-timer.C:
				break drain
			}
		}

		w.mu.Lock()
		w.rebuild(ctx)
		w.mu.Unlock()
	}
}

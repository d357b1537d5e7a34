// Package watch rebuilds a site when its content, theme or core templates
// change, and optionally on a fixed interval.
package watch

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/logfields"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// RebuildFunc performs one full rebuild.
type RebuildFunc func(ctx context.Context, reason string) error

// Options configures a Watcher.
type Options struct {
	Dirs     []string // watched recursively; missing directories are skipped
	Debounce time.Duration
	Interval time.Duration // periodic rebuild; zero disables it
	Rebuild  RebuildFunc
	Logger   *slog.Logger

	// MetricsListen, when set together with MetricsHandler, serves
	// /metrics on that address while watching.
	MetricsListen  string
	MetricsHandler http.Handler
}

// Watcher serializes rebuilds: one runs at a time and at most one more is
// queued while it runs.
type Watcher struct {
	opts   Options
	logger *slog.Logger

	requests chan string

	mu     sync.Mutex
	timer  *time.Timer
	builds int
}

// New validates opts and creates a Watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Rebuild == nil {
		return nil, errors.ValidationError("watch requires a rebuild function").Build()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{opts: opts, logger: opts.Logger, requests: make(chan string, 1)}, nil
}

// Builds returns the number of rebuilds started so far.
func (w *Watcher) Builds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builds
}

// Run performs an initial build, then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()
	for _, dir := range w.opts.Dirs {
		w.addDirsRecursive(fw, dir)
	}

	sched, err := w.startScheduler()
	if err != nil {
		return err
	}
	if sched != nil {
		defer func() {
			if err := sched.Shutdown(); err != nil {
				w.logger.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	srv := w.startMetricsServer()
	if srv != nil {
		defer func() {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx)
	}()
	defer wg.Wait()

	w.Request("initial")
	w.logger.Info("Watching for changes",
		logfields.Count(len(w.opts.Dirs)),
		logfields.Duration(w.opts.Debounce),
		"interval", w.opts.Interval.String())

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			w.logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// Trigger schedules a rebuild after the debounce delay; further triggers
// within the delay restart it.
func (w *Watcher) Trigger(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.Request(reason) })
}

// Request asks for a rebuild without debouncing. It never blocks.
func (w *Watcher) Request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// worker runs rebuilds one at a time. Requests arriving meanwhile collapse
// into the single buffered slot of w.requests.
func (w *Watcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-w.requests:
			w.mu.Lock()
			w.builds++
			w.mu.Unlock()
			w.rebuild(ctx, reason)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context, reason string) {
	start := time.Now()
	w.logger.Info("Rebuilding site", "reason", reason)
	if err := w.opts.Rebuild(ctx, reason); err != nil {
		if stdErrors.Is(err, context.Canceled) {
			return
		}
		w.logger.Warn("Rebuild failed", logfields.Error(err), logfields.Duration(time.Since(start)))
		return
	}
	w.logger.Info("Rebuild complete", logfields.Duration(time.Since(start)))
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ShouldIgnore(ev.Name) || ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fw, ev.Name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	w.Trigger("change: " + filepath.Base(ev.Name))
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (w *Watcher) startScheduler() (gocron.Scheduler, error) {
	if w.opts.Interval <= 0 {
		return nil, nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(func() { w.Request("scheduled") }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryConfig, "schedule periodic rebuild").
			WithContext("interval", w.opts.Interval.String()).
			Build()
	}
	s.Start()
	return s, nil
}

func (w *Watcher) startMetricsServer() *http.Server {
	if w.opts.MetricsListen == "" || w.opts.MetricsHandler == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", w.opts.MetricsHandler)
	srv := &http.Server{
		Addr:              w.opts.MetricsListen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			w.logger.Error("Metrics listener failed", logfields.Error(err))
		}
	}()
	w.logger.Info(fmt.Sprintf("Serving metrics on http://%s/metrics", w.opts.MetricsListen))
	return srv
}

// ShouldIgnore reports whether a changed path is an editor or hidden file.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"), strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}

package watch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type counter struct {
	n       atomic.Int32
	mu      sync.Mutex
	reasons []string
}

func (c *counter) rebuild(_ context.Context, reason string) error {
	c.n.Add(1)
	c.mu.Lock()
	c.reasons = append(c.reasons, reason)
	c.mu.Unlock()
	return nil
}

func startWatcher(t *testing.T, opts Options) *Watcher {
	t.Helper()
	opts.Logger = discardLogger()
	w, err := New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return w
}

func TestNewRequiresRebuild(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestShouldIgnore(t *testing.T) {
	for _, p := range []string{"/x/.hidden", "/x/file.toml~", "/x/.file.swp", "/x/#file#", "/x/a.swx"} {
		require.True(t, ShouldIgnore(p), p)
	}
	for _, p := range []string{"/x/home.en.toml", "/x/base.html", "/x/post.de.md"} {
		require.False(t, ShouldIgnore(p), p)
	}
}

func TestRunBuildsInitiallyAndOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "services"), 0o750))
	c := &counter{}
	startWatcher(t, Options{Dirs: []string{dir}, Debounce: 20 * time.Millisecond, Rebuild: c.rebuild})

	require.Eventually(t, func() bool { return c.n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "services", "seo.en.toml"), []byte("[meta]\n"), 0o600))
	require.Eventually(t, func() bool { return c.n.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Equal(t, "initial", c.reasons[0])
	require.Equal(t, "change: seo.en.toml", c.reasons[1])
}

func TestTriggerDebounces(t *testing.T) {
	c := &counter{}
	w := startWatcher(t, Options{Debounce: 50 * time.Millisecond, Rebuild: c.rebuild})
	require.Eventually(t, func() bool { return c.n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	for range 5 {
		w.Trigger("burst")
	}
	require.Eventually(t, func() bool { return c.n.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(2), c.n.Load())
	require.Equal(t, 2, w.Builds())
}

func TestRequestsCollapseWhileBuilding(t *testing.T) {
	release := make(chan struct{})
	var n atomic.Int32
	slow := func(ctx context.Context, _ string) error {
		n.Add(1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}
	w := startWatcher(t, Options{Rebuild: slow})
	require.Eventually(t, func() bool { return n.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	for range 10 {
		w.Request("queued")
	}
	close(release)
	require.Eventually(t, func() bool { return n.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(2), n.Load())
}

func TestPeriodicRebuild(t *testing.T) {
	c := &counter{}
	startWatcher(t, Options{Interval: 100 * time.Millisecond, Rebuild: c.rebuild})
	require.Eventually(t, func() bool { return c.n.Load() >= 3 }, 3*time.Second, 20*time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Contains(t, c.reasons, "scheduled")
}

func TestMetricsServer(t *testing.T) {
	c := &counter{}
	w, err := New(Options{
		Rebuild:        c.rebuild,
		Logger:         discardLogger(),
		MetricsListen:  "127.0.0.1:0",
		MetricsHandler: http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) { _, _ = rw.Write([]byte("ok")) }),
	})
	require.NoError(t, err)

	srv := w.startMetricsServer()
	require.NotNil(t, srv)
	defer func() { _ = srv.Close() }()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

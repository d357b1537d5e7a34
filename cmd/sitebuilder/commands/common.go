// Package commands implements the sitebuilder CLI commands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vividigit/sitebuilder/internal/build"
	"github.com/vividigit/sitebuilder/internal/config"
	"github.com/vividigit/sitebuilder/internal/logfields"
	"github.com/vividigit/sitebuilder/internal/metrics"
	"github.com/vividigit/sitebuilder/internal/notify"
)

// Global carries process-wide state into commands.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Root    string           `short:"r" help:"Project root containing sites/, themes/ and core/" default:"." type:"path"`
	Site    string           `short:"s" help:"Site name (directory in sites/)" default:"vividigit"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build one language, or every detected language with --all"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild whenever content or templates change"`
	Init     InitCmd     `cmd:"" help:"Scaffold a site configuration"`
	Validate ValidateCmd `cmd:"" help:"Check configuration, content and block templates without writing output"`

	Stdout io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing; set up a default logger until the
// site configuration is read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.NewLogger(config.LoggingConfig{}, c.Verbose, os.Stderr))
	return nil
}

func (c *CLI) out() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// loadSite reads site.yml and installs the logger it configures.
func (c *CLI) loadSite(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Root, c.Site)
	if err != nil {
		return nil, err
	}
	g.Logger = config.NewLogger(cfg.Logging, c.Verbose, os.Stderr)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

// observers holds the metrics recorder and event publisher shared by builds.
type observers struct {
	recorder  metrics.Recorder
	prom      *metrics.PrometheusRecorder
	publisher notify.Publisher
}

// newObservers wires Prometheus when metrics are configured and NATS when a
// URL is set. An unreachable NATS server only disables events.
func newObservers(cfg *config.Config, logger *slog.Logger) *observers {
	o := &observers{recorder: metrics.NoopRecorder{}, publisher: notify.Noop{}}
	if cfg.Metrics.Textfile != "" || cfg.Metrics.Listen != "" {
		o.prom = metrics.NewPrometheusRecorder(nil)
		o.recorder = o.prom
	}
	if cfg.Notify.Enabled() {
		pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, cfg.Notify.Timeout, logger)
		if err != nil {
			logger.Warn("Build events disabled", logfields.Error(err))
		} else {
			o.publisher = pub
		}
	}
	return o
}

func (o *observers) writeTextfile(path string, logger *slog.Logger) {
	if o.prom == nil || path == "" {
		return
	}
	if err := o.prom.WriteTextfile(path); err != nil {
		logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

func (o *observers) close(logger *slog.Logger) {
	if err := o.publisher.Close(); err != nil {
		logger.Warn("Failed to close event publisher", logfields.Error(err))
	}
}

func (c *CLI) newService(cfg *config.Config, local bool, o *observers, logger *slog.Logger) (*build.Service, error) {
	return build.NewService(build.Options{
		Root:      c.Root,
		Site:      c.Site,
		Config:    cfg,
		Local:     local,
		Recorder:  o.recorder,
		Publisher: o.publisher,
		Logger:    logger,
	})
}

// languages resolves the languages to build: every detected one with all,
// otherwise lang or the site default.
func languages(svc *build.Service, cfg *config.Config, lang string, all bool) ([]string, error) {
	if all {
		return svc.Languages()
	}
	if lang == "" {
		lang = cfg.Site.Language
	}
	return []string{lang}, nil
}

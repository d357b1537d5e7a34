package commands

import (
	"context"
	"path/filepath"

	"github.com/vividigit/sitebuilder/internal/config"
	"github.com/vividigit/sitebuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Lang  string `arg:"" optional:"" help:"Language code (default: site.language)"`
	All   bool   `help:"Rebuild all detected languages"`
	Local bool   `help:"Build for local development (base_url=/)" default:"true" negatable:""`
}

// Run rebuilds until interrupted. site.yml is re-read before every rebuild,
// so configuration edits apply without a restart.
func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadSite(g)
	if err != nil {
		return err
	}
	o := newObservers(cfg, g.Logger)
	defer o.close(g.Logger)

	paths := config.ResolvePaths(root.Root, root.Site, cfg)
	rebuild := func(ctx context.Context, _ string) error {
		current, err := config.Load(root.Root, root.Site)
		if err != nil {
			return err
		}
		svc, err := root.newService(current, w.Local, o, g.Logger)
		if err != nil {
			return err
		}
		langs, err := languages(svc, current, w.Lang, w.All)
		if err != nil {
			return err
		}
		reports, err := svc.BuildAll(ctx, langs)
		o.writeTextfile(current.Metrics.Textfile, g.Logger)
		printReports(root.out(), reports)
		return err
	}

	opts := watch.Options{
		Dirs: []string{
			filepath.Dir(config.SiteFile(root.Root, root.Site)),
			filepath.Dir(paths.Templates),
			paths.CoreTemplates,
		},
		Debounce: cfg.Watch.Debounce,
		Interval: cfg.Watch.Interval,
		Rebuild:  rebuild,
		Logger:   g.Logger,
	}
	if o.prom != nil {
		opts.MetricsListen = cfg.Metrics.Listen
		opts.MetricsHandler = o.prom.Handler()
	}
	watcher, err := watch.New(opts)
	if err != nil {
		return err
	}
	return watcher.Run(g.ctx())
}

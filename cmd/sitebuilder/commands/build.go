package commands

import (
	"fmt"
	"io"

	"github.com/vividigit/sitebuilder/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Lang  string `arg:"" optional:"" help:"Language code (default: site.language)"`
	All   bool   `help:"Build all detected languages"`
	Local bool   `help:"Build for local development (base_url=/)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadSite(g)
	if err != nil {
		return err
	}
	o := newObservers(cfg, g.Logger)
	defer o.close(g.Logger)

	svc, err := root.newService(cfg, b.Local, o, g.Logger)
	if err != nil {
		return err
	}
	langs, err := languages(svc, cfg, b.Lang, b.All)
	if err != nil {
		return err
	}

	reports, err := svc.BuildAll(g.ctx(), langs)
	o.writeTextfile(cfg.Metrics.Textfile, g.Logger)
	printReports(root.out(), reports)
	return err
}

func printReports(w io.Writer, reports []*build.BuildReport) {
	for _, r := range reports {
		if r == nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "[%s] %s: %d pages, %d rendered, %d exported in %s\n",
			r.Lang, r.Outcome, r.Pages, r.Rendered, r.Exported, r.Duration().Round(1e6))
		for _, warn := range r.Warnings {
			_, _ = fmt.Fprintf(w, "  warning: %v\n", warn)
		}
	}
}

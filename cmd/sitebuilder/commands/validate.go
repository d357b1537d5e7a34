package commands

import (
	"fmt"
	"os"

	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/metrics"
	"github.com/vividigit/sitebuilder/internal/notify"
	"github.com/vividigit/sitebuilder/internal/site"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	Strict bool `help:"Treat block templates without demo content as problems"`
}

// Run parses every language's content and checks block templates. Nothing
// is written; problems are printed and reported as a validation error.
func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadSite(g)
	if err != nil {
		return err
	}
	svc, err := root.newService(cfg, false, &observers{recorder: metrics.NoopRecorder{}, publisher: notify.Noop{}}, g.Logger)
	if err != nil {
		return err
	}
	paths := svc.Paths()
	out := root.out()

	var problems []string
	if info, err := os.Stat(paths.Templates); err != nil || !info.IsDir() {
		problems = append(problems, fmt.Sprintf("theme templates not found: %s", paths.Templates))
	}

	langs, err := svc.Languages()
	if err != nil {
		return err
	}
	available := site.AvailableBlocks(paths.Blocks)
	loader := content.NewLoader(content.NewParser(content.NewMarkdown()), g.Logger)
	for _, lang := range langs {
		files, err := content.Discover(paths.Content, lang)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "scan content directory").
				WithContext("path", paths.Content).Build()
		}
		pages, parseErrs := loader.Load(files, lang)
		for _, e := range parseErrs {
			problems = append(problems, e.Error())
		}
		for _, p := range pages {
			problems = append(problems, site.ValidatePageBlocks(p, available, paths.Blocks)...)
		}
		demoWarnings := site.ValidateBlocks(available, site.DemoBlocks(paths.BlocksContent, lang))
		if v.Strict {
			problems = append(problems, demoWarnings...)
		} else {
			for _, w := range demoWarnings {
				_, _ = fmt.Fprintf(out, "[%s] note: %s\n", lang, w)
			}
		}
		_, _ = fmt.Fprintf(out, "[%s] %d files, %d pages\n", lang, len(files), len(pages))
	}

	for _, p := range problems {
		_, _ = fmt.Fprintf(out, "problem: %s\n", p)
	}
	if len(problems) > 0 {
		return errors.ValidationError("site validation failed").
			WithContext("site", root.Site).
			WithContext("problems", len(problems)).
			Build()
	}
	_, _ = fmt.Fprintln(out, "Site is valid")
	return nil
}

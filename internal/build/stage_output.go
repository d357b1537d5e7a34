package build

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"

	"github.com/vividigit/sitebuilder/internal/export"
	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/linkcheck"
	"github.com/vividigit/sitebuilder/internal/logfields"
	"github.com/vividigit/sitebuilder/internal/render"
	"github.com/vividigit/sitebuilder/internal/site"
)

func templateDirs(bs *BuildState) []string {
	dirs := []string{bs.Paths.Templates}
	if info, err := os.Stat(bs.Paths.CoreTemplates); err == nil && info.IsDir() {
		dirs = append(dirs, bs.Paths.CoreTemplates)
	}
	return dirs
}

// stageRender renders every page. Write failures abort the build; template
// problems are warnings unless build.strict is set.
func stageRender(ctx context.Context, bs *BuildState) error {
	r := render.New(render.Options{
		TemplateDirs: templateDirs(bs),
		IconsDir:     bs.Paths.Icons,
		OutputDir:    bs.OutputDir,
		Global:       bs.Global,
		Strict:       bs.Config.Build.Strict,
		Logger:       bs.Logger,
	})

	var problems []error
	for _, p := range bs.Pages {
		if err := ctx.Err(); err != nil {
			return NewCanceledStageError(StageRender, err)
		}
		res, err := r.RenderPage(p, bs.Sitemap, bs.Navigation)
		if err != nil {
			if bs.Config.Build.Strict || errors.HasCategory(err, errors.CategoryFileSystem) {
				return NewFatalStageError(StageRender, fmt.Errorf("%w: %s: %w", ErrRender, p.URL, err))
			}
			bs.Logger.Warn("Render failed", logfields.URL(p.URL), logfields.Error(err))
			problems = append(problems, fmt.Errorf("%s: %w", p.URL, err))
			continue
		}
		for _, w := range res.Warnings {
			problems = append(problems, fmt.Errorf("%s: %s", p.URL, w))
		}
		if res.Path != "" {
			bs.RenderedFiles = append(bs.RenderedFiles, res.Path)
			bs.Report.Rendered++
		}
	}
	bs.Logger.Info("Rendered pages", logfields.Lang(bs.Lang), logfields.Count(bs.Report.Rendered))
	if len(problems) > 0 {
		return NewWarnStageError(StageRender, fmt.Errorf("%w: %d problem(s): %w", ErrRender, len(problems), stdErrors.Join(problems...)))
	}
	return nil
}

func stageExport(ctx context.Context, bs *BuildState) error {
	res, err := export.Run(ctx, export.Options{
		OutputDir:       bs.OutputDir,
		DefaultLanguage: bs.Config.Site.Language,
		Dimensions:      bs.Config.Facets.Dimensions,
		LanguageCodes:   bs.Config.Exports.LanguageCodeMap,
		SQLite:          bs.Config.Build.SQLiteExport,
	}, bs.Pages, bs.Graph, bs.Map)
	bs.Report.Exported = len(res.Files)
	if err != nil {
		if ctx.Err() != nil {
			return NewCanceledStageError(StageExport, err)
		}
		return NewFatalStageError(StageExport, fmt.Errorf("%w: %w", ErrExport, err))
	}
	bs.Logger.Info("Exported data files", logfields.Lang(bs.Lang), logfields.Count(len(res.Files)))
	return nil
}

// stageAssets copies theme assets; only the default language build does so,
// other languages share them.
func stageAssets(_ context.Context, bs *BuildState) error {
	n, err := site.CopyAssets(bs.Paths.Assets, bs.OutputDir)
	bs.Report.AssetsCopied = n
	if err != nil {
		return NewFatalStageError(StageAssets, err)
	}
	bs.Logger.Info("Copied assets", logfields.Count(n), logfields.Path(bs.Paths.Assets))
	return nil
}

func stageSitemap(_ context.Context, bs *BuildState) error {
	domain := bs.Global.Domain()
	path, err := site.WriteSitemap(bs.OutputDir, domain, bs.Pages)
	if err != nil {
		return NewFatalStageError(StageSitemap, errors.WrapError(err, errors.CategoryFileSystem, "write sitemap").Build())
	}
	bs.Logger.Info("Wrote sitemap", logfields.Path(path), logfields.Count(len(bs.Pages)))
	if !bs.Default {
		return nil
	}
	if path, err = site.WriteRobots(bs.OutputDir, domain); err != nil {
		return NewFatalStageError(StageSitemap, errors.WrapError(err, errors.CategoryFileSystem, "write robots.txt").Build())
	}
	bs.Logger.Debug("Wrote robots.txt", logfields.Path(path))
	return nil
}

func stageLinkCheck(ctx context.Context, bs *BuildState) error {
	rep, err := linkcheck.NewChecker(bs.Paths.Output).Check(ctx, bs.RenderedFiles)
	if err != nil {
		if ctx.Err() != nil {
			return NewCanceledStageError(StageLinkCheck, err)
		}
		return NewWarnStageError(StageLinkCheck, err)
	}
	bs.Report.BrokenLinks = rep.Broken
	if bs.Recorder != nil {
		bs.Recorder.AddBrokenLinks(bs.Lang, len(rep.Broken))
	}
	bs.Logger.Info("Checked internal links",
		logfields.Lang(bs.Lang),
		logfields.Count(rep.Checked),
		"broken", len(rep.Broken))
	if len(rep.Broken) == 0 {
		return nil
	}
	for _, b := range rep.Broken {
		bs.Logger.Warn("Broken internal link", logfields.File(b.Page), logfields.URL(b.URL))
	}
	return NewWarnStageError(StageLinkCheck, fmt.Errorf("%w: %d broken link(s), first: %s", ErrBrokenLinks, len(rep.Broken), rep.Broken[0]))
}

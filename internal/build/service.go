package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vividigit/sitebuilder/internal/config"
	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/logfields"
	"github.com/vividigit/sitebuilder/internal/metrics"
	"github.com/vividigit/sitebuilder/internal/notify"
)

// Options configures a Service.
type Options struct {
	Root      string // project root containing sites/, themes/ and core/
	Site      string
	Config    *config.Config
	Local     bool // force base_url "/" for local previews
	Recorder  metrics.Recorder
	Publisher notify.Publisher
	Logger    *slog.Logger
}

// Service runs language builds for one site. It is safe to call Build
// concurrently for different languages.
type Service struct {
	root      string
	site      string
	cfg       *config.Config
	paths     config.Paths
	global    config.Global
	recorder  metrics.Recorder
	publisher notify.Publisher
	logger    *slog.Logger
}

// NewService resolves the site's paths and loads its global settings.
func NewService(opts Options) (*Service, error) {
	if opts.Config == nil {
		return nil, errors.ConfigError("build service requires a site configuration").Build()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Publisher == nil {
		opts.Publisher = notify.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	paths := config.ResolvePaths(opts.Root, opts.Site, opts.Config)
	global, err := config.LoadGlobal(paths.Global)
	if err != nil {
		return nil, err
	}
	return &Service{
		root:      opts.Root,
		site:      opts.Site,
		cfg:       opts.Config,
		paths:     paths,
		global:    global.WithSite(opts.Config, opts.Local),
		recorder:  opts.Recorder,
		publisher: opts.Publisher,
		logger:    opts.Logger.With(logfields.Site(opts.Site)),
	}, nil
}

// Paths returns the resolved site directories.
func (s *Service) Paths() config.Paths { return s.paths }

// Languages lists the languages present in the content tree, falling back
// to the configured default language when none are detected.
func (s *Service) Languages() ([]string, error) {
	langs, err := content.DetectLanguages(s.paths.Content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "detect content languages").
			WithContext("path", s.paths.Content).
			Build()
	}
	if len(langs) == 0 {
		return []string{s.cfg.Site.Language}, nil
	}
	return langs, nil
}

// Pipeline returns the ordered stages for lang.
func (s *Service) Pipeline(lang string) *Pipeline {
	def := lang == s.cfg.Site.Language
	return NewPipeline().
		Add(StageDiscover, stageDiscover).
		Add(StageParse, stageParse).
		Add(StageValidateBlocks, stageValidateBlocks).
		Add(StageNormalize, stageNormalize).
		Add(StageGraph, stageGraph).
		Add(StageAssociate, stageAssociate).
		Add(StageResolveTasks, stageResolveTasks).
		Add(StageRender, stageRender).
		Add(StageExport, stageExport).
		AddIf(def, StageAssets, stageAssets).
		Add(StageSitemap, stageSitemap).
		AddIf(s.cfg.Build.LinkCheck, StageLinkCheck, stageLinkCheck)
}

// Build runs the pipeline for one language and persists its report. The
// returned error is the fatal stage error, if any; the report is always
// non-nil.
func (s *Service) Build(ctx context.Context, lang string) (*BuildReport, error) {
	buildID := uuid.New().String()
	logger := s.logger.With(logfields.Lang(lang), logfields.BuildID(buildID))
	report := NewBuildReport(buildID, s.site, lang)

	if rev, err := Revision(s.root); err != nil {
		logger.Warn("Could not resolve content revision", logfields.Error(err))
	} else {
		report.Revision = rev
	}

	outputDir := s.paths.LanguageOutput(lang, s.cfg.Site.Language)
	bs := &BuildState{
		Lang:      lang,
		Default:   lang == s.cfg.Site.Language,
		Config:    s.cfg,
		Paths:     s.paths,
		Global:    s.global,
		OutputDir: outputDir,
		Recorder:  s.recorder,
		Logger:    logger,
		Report:    report,
		Loader:    content.NewLoader(content.NewParser(content.NewMarkdown()), logger),
	}

	logger.Info("Building language", logfields.Path(outputDir))
	runErr := RunStages(ctx, bs, s.Pipeline(lang).Build())

	report.Finish()
	report.DeriveOutcome()
	if err := report.Persist(outputDir); err != nil {
		logger.Warn("Failed to persist build report", logfields.Error(err))
	}

	s.recorder.ObserveBuildDuration(lang, report.Duration())
	s.recorder.IncBuildOutcome(string(report.Outcome))
	s.publish(ctx, report, outputDir, logger)

	logger.Info("Build finished",
		logfields.Outcome(string(report.Outcome)),
		logfields.Count(report.Pages),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000),
		"rendered", report.Rendered,
		"exported", report.Exported,
		"warnings", len(report.Warnings))
	logger.Debug(report.Summary())
	return report, runErr
}

// publish sends the build-completed event. It runs even when ctx was
// canceled so subscribers learn about canceled builds.
func (s *Service) publish(ctx context.Context, r *BuildReport, outputDir string, logger *slog.Logger) {
	timeout := s.cfg.Notify.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	ev := notify.Event{
		BuildID:     r.BuildID,
		Site:        r.Site,
		Lang:        r.Lang,
		Outcome:     string(r.Outcome),
		Pages:       r.Pages,
		Rendered:    r.Rendered,
		Exported:    r.Exported,
		BrokenLinks: len(r.BrokenLinks),
		DurationMS:  r.Duration().Milliseconds(),
		Revision:    r.Revision,
		OutputDir:   outputDir,
		Timestamp:   r.End,
	}
	err := s.publisher.Publish(pctx, ev)
	s.recorder.IncEventPublish(err == nil)
	if err != nil {
		logger.Warn("Failed to publish build event", logfields.Error(err))
	}
}

// BuildAll builds every language in langs. Builds run sequentially unless
// build.parallel_languages is above one. All languages are attempted; the
// first failure is returned.
func (s *Service) BuildAll(ctx context.Context, langs []string) ([]*BuildReport, error) {
	reports := make([]*BuildReport, len(langs))
	var g errgroup.Group
	g.SetLimit(max(1, s.cfg.Build.ParallelLanguages))
	for i, lang := range langs {
		g.Go(func() error {
			r, err := s.Build(ctx, lang)
			reports[i] = r
			if err != nil {
				return fmt.Errorf("build %s: %w", lang, err)
			}
			return nil
		})
	}
	return reports, g.Wait()
}

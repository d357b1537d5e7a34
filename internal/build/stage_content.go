package build

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/logfields"
	"github.com/vividigit/sitebuilder/internal/site"
)

func stageDiscover(_ context.Context, bs *BuildState) error {
	files, err := content.Discover(bs.Paths.Content, bs.Lang)
	if err != nil {
		ce := errors.WrapError(err, errors.CategoryFileSystem, "scan content directory").
			WithContext("path", bs.Paths.Content).
			Build()
		return NewFatalStageError(StageDiscover, fmt.Errorf("%w: %w", ErrDiscovery, ce))
	}
	bs.Files = files
	bs.Report.Files = len(files)
	bs.Logger.Info("Discovered content files", logfields.Lang(bs.Lang), logfields.Count(len(files)))
	if len(files) == 0 {
		return NewWarnStageError(StageDiscover, fmt.Errorf("%w: no .%s. files under %s", ErrDiscovery, bs.Lang, bs.Paths.Content))
	}
	return nil
}

func stageParse(_ context.Context, bs *BuildState) error {
	pages, problems := bs.Loader.Load(bs.Files, bs.Lang)
	bs.Pages = pages
	bs.Report.Pages = len(pages)
	bs.Report.Fingerprints, bs.Report.ContentFingerprint = Fingerprints(pages)
	if bs.Recorder != nil {
		bs.Recorder.SetPages(bs.Lang, len(pages))
	}
	if len(problems) > 0 {
		return NewWarnStageError(StageParse, fmt.Errorf("%w: %d file(s) skipped: %w", ErrContent, len(problems), stdErrors.Join(problems...)))
	}
	return nil
}

// stageValidateBlocks checks that every block used by a page has a template.
// Templates without demo content are recorded as informational issues.
func stageValidateBlocks(_ context.Context, bs *BuildState) error {
	available := site.AvailableBlocks(bs.Paths.Blocks)
	demos := site.DemoBlocks(bs.Paths.BlocksContent, bs.Lang)
	bs.Blocks = available
	bs.Logger.Info("Validated block templates",
		logfields.Lang(bs.Lang),
		logfields.Count(available.Len()),
		"demos", demos.Len())

	for _, w := range site.ValidateBlocks(available, demos) {
		bs.Logger.Debug(w)
		bs.Report.AddIssue(IssueBlockWithoutDemo, StageValidateBlocks, SeverityWarning, w, false, nil)
	}

	var missing []error
	for _, p := range bs.Pages {
		for _, msg := range site.ValidatePageBlocks(p, available, bs.Paths.Blocks) {
			bs.Logger.Warn(msg, logfields.URL(p.URL))
			missing = append(missing, stdErrors.New(msg))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	err := fmt.Errorf("%w: %d block(s) without template: %w", ErrBlocks, len(missing), stdErrors.Join(missing...))
	if bs.Config.Build.Strict {
		return NewFatalStageError(StageValidateBlocks, err)
	}
	return NewWarnStageError(StageValidateBlocks, err)
}

func stageNormalize(_ context.Context, bs *BuildState) error {
	if n := content.NormalizeBlog(bs.Pages); n > 0 {
		bs.Logger.Debug("Normalized blog pages", logfields.Count(n))
	}
	return nil
}

package build

import (
	"context"
	"fmt"

	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/catalog"
	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/graph"
	"github.com/vividigit/sitebuilder/internal/logfields"
	"github.com/vividigit/sitebuilder/internal/related"
	"github.com/vividigit/sitebuilder/internal/site"
	"github.com/vividigit/sitebuilder/internal/tasks"
)

func stageGraph(_ context.Context, bs *BuildState) error {
	bs.Graph = graph.Build(bs.Pages)
	resolved := graph.ResolveSourceBlocks(bs.Pages, bs.Graph)
	bs.Logger.Info("Built relationship graph",
		logfields.Lang(bs.Lang),
		logfields.Count(bs.Graph.Len()),
		"resolved_blocks", resolved)
	return nil
}

// stageAssociate builds the catalog and the bidirectional association map,
// then injects related-entity sections and catalog filters into pages.
func stageAssociate(_ context.Context, bs *BuildState) error {
	bs.Catalog = catalog.Build(bs.Pages)
	bs.Map = association.Build(bs.Catalog)
	bs.Report.Entities = bs.Catalog.Len()
	bs.Report.Associations = bs.Map.Len()
	if bs.Recorder != nil {
		bs.Recorder.SetAssociations(bs.Lang, bs.Map.Len())
	}

	bs.Report.RelatedBlocks = related.InjectRelatedBlocks(bs.Pages, bs.Map)
	bs.Report.FilterBlocks = related.InjectCatalogFilters(bs.Pages, bs.Map)
	bs.Logger.Info("Built association map",
		logfields.Lang(bs.Lang),
		logfields.Count(bs.Map.Len()),
		"related_blocks", bs.Report.RelatedBlocks,
		"filter_blocks", bs.Report.FilterBlocks)
	return nil
}

// stageResolveTasks loads _tasks/ and fills task-picker blocks, then lays
// out the navigation and sitemap handed to templates.
func stageResolveTasks(_ context.Context, bs *BuildState) error {
	defer func() {
		bs.Navigation = site.BuildNavigation(bs.Pages, bs.Config.Navigation.Order)
		bs.Sitemap = site.Entries(bs.Pages, bs.Lang)
	}()

	set, err := tasks.Load(bs.Paths.Tasks, bs.Lang, bs.Loader)
	if err != nil {
		if !errors.IsClassified(err) {
			err = errors.WrapError(err, errors.CategoryFileSystem, "read tasks directory").
				WithContext("path", bs.Paths.Tasks).
				Build()
		}
		return NewWarnStageError(StageResolveTasks, fmt.Errorf("%w: %w", ErrContent, err))
	}
	bs.Tasks = set
	bs.Report.Tasks = len(set)
	if len(set) > 0 {
		bs.Report.TaskPickers = tasks.ResolvePickers(bs.Pages, set)
		bs.Logger.Info("Resolved task pickers",
			logfields.Lang(bs.Lang),
			logfields.Count(len(set)),
			"blocks", bs.Report.TaskPickers)
	}
	return nil
}

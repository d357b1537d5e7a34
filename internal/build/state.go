package build

import (
	"log/slog"

	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/catalog"
	"github.com/vividigit/sitebuilder/internal/config"
	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/graph"
	"github.com/vividigit/sitebuilder/internal/metrics"
	"github.com/vividigit/sitebuilder/internal/site"
	"github.com/vividigit/sitebuilder/internal/tasks"
	"github.com/vividigit/sitebuilder/internal/util/sets"
)

// BuildState is the mutable state shared by the stages of one language build.
type BuildState struct {
	Lang      string
	Default   bool // lang is the site's default language
	Config    *config.Config
	Paths     config.Paths
	Global    config.Global
	OutputDir string
	Recorder  metrics.Recorder
	Logger    *slog.Logger
	Report    *BuildReport

	Loader *content.Loader

	Files   []content.File
	Pages   []*content.Page
	Blocks  sets.Set[string]
	Graph   *graph.Graph
	Catalog *catalog.Catalog
	Map     *association.Map
	Tasks   tasks.Set

	Navigation []site.NavItem
	Sitemap    []site.Entry

	RenderedFiles []string
}

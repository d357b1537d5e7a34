// Package build runs the per-language site build pipeline.
//
// A build is an ordered list of named stages (discover, parse,
// validate_blocks, normalize, graph, associate, resolve_tasks, render,
// export, assets, sitemap, link_check) sharing a BuildState. Each stage is
// timed and classified into success, warning, fatal or canceled; the outcome
// lands in a BuildReport persisted next to the language output.
//
// All execution paths (build command, watch mode, tests) go through Service.
package build

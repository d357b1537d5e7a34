// Package export writes the JSON indexes consumed by client-side catalog
// pages, plus the optional SQLite snapshot of the relationship graph.
package export

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/graph"
)

// DataDir is the output subdirectory holding every export.
const DataDir = "data"

// Options configures an export run.
type Options struct {
	OutputDir       string
	DefaultLanguage string
	Dimensions      []string
	LanguageCodes   map[string]string
	SQLite          bool
}

// Result lists the files written, relative to the output directory.
type Result struct {
	Files []string
}

// Run writes every index for one language build.
func Run(ctx context.Context, opts Options, pages []*content.Page, g *graph.Graph, m *association.Map) (Result, error) {
	dir := filepath.Join(opts.OutputDir, DataDir)
	tags := BuildTagIndex(pages, opts.Dimensions)

	type document struct {
		name string
		doc  any
	}
	// Collections go first: a collection named like an index (team) is
	// overwritten by the index.
	var docs []document
	for _, c := range BuildCollections(pages, opts.DefaultLanguage) {
		docs = append(docs, document{c.Name + ".json", c.Items})
	}
	docs = append(docs,
		document{"services-index.json", BuildServicesIndex(pages, m)},
		document{"team.json", BuildTeamIndex(pages, m)},
		document{"cases.json", BuildCasesIndex(pages, m)},
		document{"categories-index.json", map[string]any{"categories": BuildCategoriesIndex(pages, tags)}},
		document{"solutions-index.json", BuildSolutionsIndex(pages, m)},
		document{"industries-index.json", map[string]any{"industries": BuildIndustriesIndex(pages, tags)}},
		document{"countries-index.json", map[string]any{"countries": BuildCountriesIndex(pages, tags)}},
		document{"languages-index.json", map[string]any{"languages": BuildLanguagesIndex(pages, tags, opts.LanguageCodes)}},
		document{"graph.json", g.Export()},
	)

	var res Result
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := WriteJSON(filepath.Join(dir, d.name), d.doc); err != nil {
			return res, errors.WrapError(err, errors.CategoryExport, "write export").WithContext("file", d.name).Build()
		}
		res.Files = append(res.Files, filepath.Join(DataDir, d.name))
	}

	if opts.SQLite {
		if err := WriteGraphDB(ctx, filepath.Join(dir, "graph.db"), g, m); err != nil {
			return res, errors.WrapError(err, errors.CategoryExport, "write graph database").WithContext("file", "graph.db").Build()
		}
		res.Files = append(res.Files, filepath.Join(DataDir, "graph.db"))
	}
	return res, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

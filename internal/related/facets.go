package related

import (
	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/catalog"
)

// Facets lists, per section, the slugs related to slug. exclude names the
// entity's own section; empty sections are omitted.
func Facets(slug string, m *association.Map, exclude string) map[string][]string {
	out := map[string][]string{}
	rels, ok := m.Get(slug)
	if !ok {
		return out
	}
	for _, dim := range AllSections {
		if dim == exclude {
			continue
		}
		if s := rels.Slugs(dim); len(s) > 0 {
			out[dim] = s
		}
	}
	return out
}

// Labels resolves every slug referenced by the given facets to its display
// label. Slugs outside the catalog label as themselves.
func Labels(facets []map[string][]string, cat *catalog.Catalog) map[string]map[string]string {
	out := map[string]map[string]string{}
	for _, f := range facets {
		for dim, slugs := range f {
			if _, ok := out[dim]; !ok {
				out[dim] = map[string]string{}
			}
			for _, s := range slugs {
				if _, ok := out[dim][s]; !ok {
					out[dim][s] = cat.Label(s)
				}
			}
		}
	}
	return out
}

package related

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/content"
)

// CatalogBlock is the listing block that receives filters.
const CatalogBlock = "catalog"

// ListingTypes maps listing collections to the entity type they list.
var ListingTypes = map[string]string{
	"services":  "service",
	"team":      "specialist",
	"cases":     "case",
	"solutions": "solution",
}

// Option is one selectable filter value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Filter is one facet of a catalog listing.
type Filter struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	AllLabel string   `json:"all_label"`
	Options  []Option `json:"options"`
}

func (f Filter) toMap() map[string]any {
	opts := make([]any, len(f.Options))
	for i, o := range f.Options {
		opts[i] = map[string]any{"value": o.Value, "label": o.Label}
	}
	return map[string]any{"name": f.Name, "label": f.Label, "all_label": f.AllLabel, "options": opts}
}

// BuildListingFilters derives the filters for a listing of entityType from
// the entities related to its items. Items are the entity pages whose
// config.type equals entityType.
func BuildListingFilters(entityType string, pages []*content.Page, m *association.Map) []Filter {
	dimensions := SectionOrder(entityType)
	if len(dimensions) == 0 {
		return nil
	}
	var items []string
	for _, p := range pages {
		if p.Config.Type == entityType && p.IsEntity() {
			items = append(items, p.Slug())
		}
	}

	var filters []Filter
	for _, dim := range dimensions {
		var seen []string
		counts := map[string]int{}
		for _, slug := range items {
			rels, _ := m.Get(slug)
			for _, s := range rels.Slugs(dim) {
				if counts[s] == 0 {
					seen = append(seen, s)
				}
				counts[s]++
			}
		}
		if len(seen) == 0 {
			continue
		}
		opts := make([]Option, len(seen))
		for i, s := range seen {
			opts[i] = Option{Value: s, Label: m.Catalog.Label(s)}
		}
		slices.SortStableFunc(opts, func(a, b Option) int {
			return cmp.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
		})
		meta := MetaFor(dim)
		filters = append(filters, Filter{Name: dim, Label: meta.Label, AllLabel: meta.AllLabel, Options: opts})
	}
	return filters
}

// InjectCatalogFilters attaches filters to the first catalog block of each
// services/team/cases/solutions listing page. Returns the number of blocks
// changed.
func InjectCatalogFilters(pages []*content.Page, m *association.Map) int {
	changed := 0
	for _, p := range pages {
		if !p.IsListing {
			continue
		}
		entityType, ok := ListingTypes[p.Config.Collection]
		if !ok {
			continue
		}
		filters := BuildListingFilters(entityType, pages, m)
		if len(filters) == 0 {
			continue
		}
		for i := range p.Blocks {
			b := &p.Blocks[i]
			if b.Type != CatalogBlock {
				continue
			}
			data, ok := b.DataMap()
			if !ok {
				data = map[string]any{}
				b.Data = data
			}
			list := make([]any, len(filters))
			for j, f := range filters {
				list[j] = f.toMap()
			}
			data["filters"] = list
			changed++
			break
		}
	}
	return changed
}

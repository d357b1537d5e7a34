package export

import (
	"slices"

	"github.com/vividigit/sitebuilder/internal/content"
)

// TagIndex maps dimension → tag slug → service slugs carrying that tag.
type TagIndex map[string]map[string][]string

// BuildTagIndex indexes the tags of service pages (config.type service or
// the services collection) over the given dimensions.
func BuildTagIndex(pages []*content.Page, dimensions []string) TagIndex {
	idx := make(TagIndex, len(dimensions))
	for _, dim := range dimensions {
		idx[dim] = map[string][]string{}
	}
	for _, p := range pages {
		if !isService(p) || p.Slug() == "" {
			continue
		}
		for _, dim := range dimensions {
			for _, tag := range p.Tags.Get(dim) {
				if !slices.Contains(idx[dim][tag], p.Slug()) {
					idx[dim][tag] = append(idx[dim][tag], p.Slug())
				}
			}
		}
	}
	return idx
}

// Count is the number of services tagged with slug in dimension.
func (t TagIndex) Count(dimension, slug string) int {
	return len(t[dimension][slug])
}

func isService(p *content.Page) bool {
	return p.Config.Type == "service" || p.Config.Collection == "services"
}

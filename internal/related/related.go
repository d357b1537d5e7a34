// Package related turns the association map into page content: the
// related-entities block on entity pages, filter definitions for catalog
// listings and the facet/label data used by the JSON indexes.
package related

import (
	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/catalog"
	"github.com/vividigit/sitebuilder/internal/content"
)

// BlockType is the type and original key of the injected block.
const BlockType = "related-entities"

// Section is one group of related cards on a page.
type Section struct {
	Type  string
	Title string
	Items []catalog.Card
}

func (s Section) toMap() map[string]any {
	items := make([]any, len(s.Items))
	for i, c := range s.Items {
		items[i] = c.Map()
	}
	return map[string]any{"type": s.Type, "title": s.Title, "items": items}
}

// Sections builds the non-empty sections for p in section order.
func Sections(p *content.Page, m *association.Map) []Section {
	rels, ok := m.Get(p.Slug())
	if !ok {
		return nil
	}
	entityType := p.Config.Type
	name := p.Name()
	var out []Section
	for _, group := range SectionOrder(entityType) {
		items := rels.Get(group)
		if len(items) == 0 {
			continue
		}
		out = append(out, Section{
			Type:  group,
			Title: SectionTitle(entityType, group, name),
			Items: items,
		})
	}
	return out
}

// InjectRelatedBlocks adds one related-entities block to each non-listing
// page that has related entities, before the page's last block. Returns the
// number of pages changed.
func InjectRelatedBlocks(pages []*content.Page, m *association.Map) int {
	injected := 0
	for _, p := range pages {
		if p.IsListing || !m.Has(p.Slug()) {
			continue
		}
		sections := Sections(p, m)
		if len(sections) == 0 {
			continue
		}
		list := make([]any, len(sections))
		for i, s := range sections {
			list[i] = s.toMap()
		}
		p.InsertBlock(content.Block{
			Type:        BlockType,
			OriginalKey: BlockType,
			Data: map[string]any{
				"entity_type": p.Config.Type,
				"sections":    list,
			},
		})
		injected++
	}
	return injected
}

// Package association derives the bidirectional relationship map: for every
// catalogued entity, the cards of related entities grouped by section.
//
// Relations come from four passes run in order (forward declarations, their
// reverse, tag references both ways, link references both ways). Within a
// group a card appears once; the first pass to add it fixes its position.
// A final pass stamps service_count onto dimension cards held in the lists.
package association

import (
	"github.com/vividigit/sitebuilder/internal/catalog"
)

var groupKeys = map[string]string{
	"services":   "services",
	"team":       "specialists",
	"cases":      "cases",
	"solutions":  "solutions",
	"categories": "categories",
	"industries": "industries",
	"countries":  "countries",
	"languages":  "languages",
	"blog":       "blog-posts",
}

// GroupKey maps a collection to its section name. Unknown collections are
// used as is.
func GroupKey(collection string) string {
	if g, ok := groupKeys[collection]; ok {
		return g
	}
	return collection
}

// ServicesGroup is the group counted into service_count.
const ServicesGroup = "services"

var countedTypes = map[string]struct{}{
	"industry": {}, "country": {}, "language": {}, "category": {},
}

// Relations is one entity's related cards, grouped and ordered.
type Relations struct {
	groups []string
	cards  map[string][]catalog.Card
}

func newRelations() *Relations {
	return &Relations{cards: map[string][]catalog.Card{}}
}

// Get returns the cards in group.
func (r *Relations) Get(group string) []catalog.Card {
	if r == nil {
		return nil
	}
	return r.cards[group]
}

// Groups lists non-empty groups in the order they were first filled.
func (r *Relations) Groups() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.groups...)
}

// Len is the number of groups.
func (r *Relations) Len() int {
	if r == nil {
		return 0
	}
	return len(r.groups)
}

// Slugs returns the slugs in group.
func (r *Relations) Slugs(group string) []string {
	cards := r.Get(group)
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Slug != "" {
			out = append(out, c.Slug)
		}
	}
	return out
}

func (r *Relations) add(group string, card catalog.Card) bool {
	for _, existing := range r.cards[group] {
		if existing.Slug == card.Slug {
			return false
		}
	}
	if _, ok := r.cards[group]; !ok {
		r.groups = append(r.groups, group)
	}
	r.cards[group] = append(r.cards[group], card)
	return true
}

// Map is the association result for one catalog.
type Map struct {
	Catalog *catalog.Catalog
	entries map[string]*Relations
}

// Get returns the relations of slug.
func (m *Map) Get(slug string) (*Relations, bool) {
	r, ok := m.entries[slug]
	return r, ok
}

// Has reports whether slug has an entry.
func (m *Map) Has(slug string) bool {
	_, ok := m.entries[slug]
	return ok
}

// Len is the number of entries; equal to the catalog size.
func (m *Map) Len() int { return len(m.entries) }

// Count returns the total number of associated cards.
func (m *Map) Count() int {
	total := 0
	for _, r := range m.entries {
		for _, g := range r.groups {
			total += len(r.cards[g])
		}
	}
	return total
}

func (m *Map) add(source, group string, card catalog.Card) {
	if r, ok := m.entries[source]; ok {
		r.add(group, card)
	}
}

// Build runs the association passes over cat. The catalog is not modified.
func Build(cat *catalog.Catalog) *Map {
	m := &Map{Catalog: cat, entries: make(map[string]*Relations, cat.Len())}
	slugs := cat.Slugs()
	for _, slug := range slugs {
		m.entries[slug] = newRelations()
	}

	m.forward(slugs)
	m.reverse(slugs)
	m.tags(slugs)
	m.links(slugs)
	m.countServices()
	return m
}

func (m *Map) card(slug string) (catalog.Card, bool) {
	return m.Catalog.Get(slug)
}

func (m *Map) forward(slugs []string) {
	for _, slug := range slugs {
		page, _ := m.Catalog.Page(slug)
		for _, rel := range page.Relationships {
			for _, target := range rel.Targets {
				if card, ok := m.card(target); ok {
					m.add(slug, GroupKey(card.Collection), card)
				}
			}
		}
	}
}

func (m *Map) reverse(slugs []string) {
	for _, slug := range slugs {
		page, _ := m.Catalog.Page(slug)
		source, _ := m.card(slug)
		group := GroupKey(source.Collection)
		for _, rel := range page.Relationships {
			for _, target := range rel.Targets {
				if m.Catalog.Has(target) {
					m.add(target, group, source)
				}
			}
		}
	}
}

func (m *Map) tags(slugs []string) {
	for _, slug := range slugs {
		page, _ := m.Catalog.Page(slug)
		source, _ := m.card(slug)
		group := GroupKey(source.Collection)
		for _, dim := range page.Tags {
			for _, tag := range dim.Targets {
				target, ok := m.card(tag)
				if !ok {
					continue
				}
				m.add(tag, group, source)
				m.add(slug, GroupKey(target.Collection), target)
			}
		}
	}
}

func (m *Map) links(slugs []string) {
	for _, slug := range slugs {
		page, _ := m.Catalog.Page(slug)
		if len(page.Links) == 0 {
			continue
		}
		source, _ := m.card(slug)
		group := GroupKey(source.Collection)
		for _, link := range page.Links {
			for _, ref := range link.Targets {
				target, ok := m.card(ref)
				if !ok {
					continue
				}
				m.add(slug, GroupKey(target.Collection), target)
				m.add(ref, group, source)
			}
		}
	}
}

// countServices runs after every list is final so counts see all passes.
func (m *Map) countServices() {
	for _, r := range m.entries {
		for _, g := range r.groups {
			cards := r.cards[g]
			for i := range cards {
				if _, ok := countedTypes[cards[i].Type]; !ok {
					continue
				}
				target, ok := m.entries[cards[i].Slug]
				if !ok {
					continue
				}
				n := len(target.cards[ServicesGroup])
				cards[i].ServiceCount = &n
			}
		}
	}
}

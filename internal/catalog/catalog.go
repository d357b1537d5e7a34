// Package catalog builds the slug-keyed table of entity cards that every
// downstream stage reads: associations, filters, labels and exports.
package catalog

import (
	"maps"
	"slices"

	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/util/fallback"
)

// Result is one headline figure shown on case study cards.
type Result struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Card is the denormalized summary of an entity. Cards are values: lists that
// hold them get their own copy.
type Card struct {
	Slug          string         `json:"slug"`
	Type          string         `json:"type"`
	Collection    string         `json:"collection"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Menu          string         `json:"menu"`
	Sidebar       map[string]any `json:"sidebar"`
	Config        map[string]any `json:"config"`
	Tags          map[string]any `json:"tags"`
	Relationships map[string]any `json:"relationships"`

	Results       []Result          `json:"results,omitempty"`
	Links         map[string]any    `json:"links,omitempty"`
	StartingPrice *float64          `json:"starting_price,omitempty"`
	ServiceCount  *int              `json:"service_count,omitempty"`
}

// Label is the display label used in filters and facet labels.
func (c Card) Label() string { return fallback.First(c.Menu, c.Title, c.Slug) }

// Map exposes the card to templates with the same keys as its JSON form.
func (c Card) Map() map[string]any {
	m := map[string]any{
		"slug":          c.Slug,
		"type":          c.Type,
		"collection":    c.Collection,
		"url":           c.URL,
		"title":         c.Title,
		"description":   c.Description,
		"menu":          c.Menu,
		"sidebar":       c.Sidebar,
		"config":        c.Config,
		"tags":          c.Tags,
		"relationships": c.Relationships,
	}
	switch c.Type {
	case TypeCase:
		results := make([]any, len(c.Results))
		for i, r := range c.Results {
			results[i] = map[string]any{"value": r.Value, "label": r.Label}
		}
		m["results"] = results
	case TypeSolution:
		links := maps.Clone(c.Links)
		if links == nil {
			links = map[string]any{}
		}
		m["links"] = links
		if c.StartingPrice != nil {
			m["starting_price"] = *c.StartingPrice
		} else {
			m["starting_price"] = nil
		}
	}
	if c.ServiceCount != nil {
		m["service_count"] = *c.ServiceCount
	}
	return m
}

// Entity types with card-specific fields.
const (
	TypeCase     = "case"
	TypeSolution = "solution"
)

// Catalog maps slugs to cards in page order.
type Catalog struct {
	order []string
	cards map[string]Card
	pages map[string]*content.Page
}

// Build catalogs the non-listing pages that declare a slug. A later page with
// a duplicate slug replaces the earlier card but keeps its position.
func Build(pages []*content.Page) *Catalog {
	c := &Catalog{cards: map[string]Card{}, pages: map[string]*content.Page{}}
	for _, p := range pages {
		if !p.IsEntity() {
			continue
		}
		slug := p.Slug()
		if _, seen := c.cards[slug]; !seen {
			c.order = append(c.order, slug)
		}
		c.cards[slug] = newCard(p)
		c.pages[slug] = p
	}
	return c
}

func newCard(p *content.Page) Card {
	collection := fallback.First(p.Config.Collection, p.Collection)
	card := Card{
		Slug:          p.Slug(),
		Type:          fallback.First(p.Config.Type, collection),
		Collection:    collection,
		URL:           p.Config.URL,
		Title:         p.Meta.Title,
		Description:   p.Meta.Description,
		Menu:          p.Config.Menu,
		Sidebar:       p.Sidebar,
		Config:        p.Config.Map(),
		Tags:          p.Tags.Map(),
		Relationships: p.Relationships.Map(),
	}
	switch card.Type {
	case TypeCase:
		card.Results = caseResults(p.Blocks)
	case TypeSolution:
		card.Links = p.Links.Map()
		card.StartingPrice = StartingPrice(p.Blocks)
	}
	return card
}

// caseResults reads {value, label} pairs from the first hero block that
// declares stats.
func caseResults(blocks []content.Block) []Result {
	results := []Result{}
	for _, b := range blocks {
		data, ok := b.DataMap()
		if b.Type != "hero" || !ok {
			continue
		}
		stats, ok := data["stats"].([]any)
		if !ok {
			continue
		}
		for _, s := range stats {
			stat := content.AsMap(s)
			results = append(results, Result{
				Value: content.AsString(stat["value"]),
				Label: content.AsString(stat["label"]),
			})
		}
		break
	}
	return results
}

// StartingPrice is the lowest non-zero package price of the first pricing
// block that declares packages, or nil.
func StartingPrice(blocks []content.Block) *float64 {
	for _, b := range blocks {
		data, ok := b.DataMap()
		if b.Type != "pricing" || !ok {
			continue
		}
		packages, ok := data["packages"].([]any)
		if !ok {
			continue
		}
		var lowest *float64
		for _, pkg := range packages {
			price, ok := content.AsFloat(content.AsMap(pkg)["price"])
			if !ok || price == 0 {
				continue
			}
			if lowest == nil || price < *lowest {
				v := price
				lowest = &v
			}
		}
		return lowest
	}
	return nil
}

// Get returns a copy of the card for slug.
func (c *Catalog) Get(slug string) (Card, bool) {
	card, ok := c.cards[slug]
	if !ok {
		return Card{}, false
	}
	return card.clone(), true
}

// Has reports whether slug is catalogued.
func (c *Catalog) Has(slug string) bool {
	_, ok := c.cards[slug]
	return ok
}

// Page returns the page a card was built from.
func (c *Catalog) Page(slug string) (*content.Page, bool) {
	p, ok := c.pages[slug]
	return p, ok
}

// Slugs lists catalogued slugs in page order.
func (c *Catalog) Slugs() []string { return slices.Clone(c.order) }

// Len is the number of cards.
func (c *Catalog) Len() int { return len(c.order) }

// Label returns the display label for slug, or the slug itself when unknown.
func (c *Catalog) Label(slug string) string {
	if card, ok := c.cards[slug]; ok {
		return card.Label()
	}
	return slug
}

func (c Card) clone() Card {
	out := c
	out.Results = slices.Clone(c.Results)
	if c.Links != nil {
		out.Links = maps.Clone(c.Links)
	}
	if c.StartingPrice != nil {
		v := *c.StartingPrice
		out.StartingPrice = &v
	}
	if c.ServiceCount != nil {
		v := *c.ServiceCount
		out.ServiceCount = &v
	}
	return out
}

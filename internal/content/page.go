// Package content turns content files into Page records: discovery of
// language files under the content tree, TOML/YAML/Markdown decoding with
// declaration order preserved, block extraction and markdown conversion.
package content

import (
	"github.com/vividigit/sitebuilder/internal/util/fallback"
)

// Page is one parsed content file.
type Page struct {
	Path       string
	URL        string
	Collection string
	IsListing  bool
	Lang       string

	Config        Config
	Meta          Meta
	Translations  map[string]any
	Sidebar       map[string]any
	Tags          Relations
	Relationships Relations
	Links         Links
	Blocks        []Block

	Source Source
}

// Source keeps the raw file halves used for fingerprinting.
type Source struct {
	Frontmatter string
	Body        string
}

// Slug is config.slug.
func (p *Page) Slug() string { return p.Config.Slug }

// EntityType is config.type, falling back to the collection.
func (p *Page) EntityType() string { return fallback.First(p.Config.Type, p.Collection) }

// Title is meta.title.
func (p *Page) Title() string { return p.Meta.Title }

// Name is the display name used in section subtitles: menu, else title.
func (p *Page) Name() string { return fallback.First(p.Config.Menu, p.Meta.Title) }

// MenuLabel is the navigation label.
func (p *Page) MenuLabel() string { return fallback.First(p.Config.Menu, p.Meta.Title, "Untitled") }

// IsEntity reports whether the page takes part in the relationship graph.
func (p *Page) IsEntity() bool { return !p.IsListing && p.Config.Slug != "" }

// InsertBlock places b before the last block, or appends it when the page
// has no blocks.
func (p *Page) InsertBlock(b Block) {
	if len(p.Blocks) == 0 {
		p.Blocks = append(p.Blocks, b)
		return
	}
	at := len(p.Blocks) - 1
	p.Blocks = append(p.Blocks, Block{})
	copy(p.Blocks[at+1:], p.Blocks[at:])
	p.Blocks[at] = b
}

// Config is the page's config table. Keys without a dedicated field are kept
// in Extra.
type Config struct {
	Slug       string
	Type       string
	Title      string
	URL        string
	Menu       string
	Lang       string
	Collection string
	Layout     string
	Extra      map[string]any
}

var configFields = []string{"slug", "type", "title", "url", "menu", "lang", "collection", "layout"}

func newConfig(raw map[string]any) Config {
	c := Config{Extra: map[string]any{}}
	for k, v := range raw {
		switch k {
		case "slug":
			c.Slug = asString(v)
		case "type":
			c.Type = asString(v)
		case "title":
			c.Title = asString(v)
		case "url":
			c.URL = asString(v)
		case "menu":
			c.Menu = asString(v)
		case "lang":
			c.Lang = asString(v)
		case "collection":
			c.Collection = asString(v)
		case "layout":
			c.Layout = asString(v)
		default:
			c.Extra[k] = v
		}
	}
	return c
}

// Get returns a config value by key, including the dedicated fields.
func (c Config) Get(key string) any {
	return c.Map()[key]
}

// String returns a config value rendered as a string.
func (c Config) String(key string) string { return asString(c.Get(key)) }

// Map flattens the config for templates and exports. Empty dedicated fields
// are omitted.
func (c Config) Map() map[string]any {
	out := make(map[string]any, len(c.Extra)+len(configFields))
	for k, v := range c.Extra {
		out[k] = v
	}
	for i, v := range []string{c.Slug, c.Type, c.Title, c.URL, c.Menu, c.Lang, c.Collection, c.Layout} {
		if v != "" {
			out[configFields[i]] = v
		}
	}
	return out
}

// Meta is the page's meta table.
type Meta struct {
	Title       string
	Description string
	Extra       map[string]any
}

func newMeta(raw map[string]any) Meta {
	m := Meta{Extra: map[string]any{}}
	for k, v := range raw {
		switch k {
		case "title":
			m.Title = asString(v)
		case "description":
			m.Description = asString(v)
		default:
			m.Extra[k] = v
		}
	}
	return m
}

// Map flattens meta for templates.
func (m Meta) Map() map[string]any {
	out := make(map[string]any, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["title"] = m.Title
	out["description"] = m.Description
	return out
}

// Block is one renderable section of a page.
type Block struct {
	Type        string
	OriginalKey string
	Data        any
}

// DataMap returns the block data when it is a table.
func (b Block) DataMap() (map[string]any, bool) {
	m, ok := b.Data.(map[string]any)
	return m, ok
}

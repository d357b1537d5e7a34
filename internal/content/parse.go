package content

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// systemKeys are page-level tables that never render as blocks.
var systemKeys = map[string]struct{}{
	"config": {}, "meta": {}, "log": {}, "changes": {}, "stats": {},
	"translations": {}, "sidebar": {}, "tags": {}, "links": {}, "relationships": {},
}

// flatFields are promoted to config when a markdown file has no config table.
var flatFields = []string{"title", "slug", "url", "date", "author", "tags", "category", "lang", "featured", "draft", "menu"}

// markdownSystemKeys are frontmatter keys that never become extra blocks.
var markdownSystemKeys = map[string]struct{}{
	"config": {}, "meta": {}, "translations": {}, "title": {}, "slug": {}, "url": {},
	"date": {}, "author": {}, "tags": {}, "category": {}, "lang": {}, "featured": {},
	"draft": {}, "menu": {}, "description": {}, "excerpt": {},
	"sidebar": {}, "links": {}, "relationships": {},
}

var frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n(.*)$`)

// Parser decodes content files into pages.
type Parser struct {
	md *Markdown
}

// NewParser returns a parser using md for markdown fields.
func NewParser(md *Markdown) *Parser {
	if md == nil {
		md = NewMarkdown()
	}
	return &Parser{md: md}
}

// Parse decodes data according to the extension of path. The returned page
// has no location fields set.
func (p *Parser) Parse(path string, data []byte) (*Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return p.parseMarkdown(string(data)), nil
	case ".toml":
		raw, order, err := decodeTOML(data)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		return p.parseTables(raw, order, string(data)), nil
	case ".yml", ".yaml":
		raw, order, err := decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return p.parseTables(raw, order, string(data)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

func cleanKey(k string) string {
	return strings.TrimLeft(strings.TrimLeft(k, "^"), "_")
}

func blockType(key string) string {
	return strings.SplitN(key, "_", 2)[0]
}

func (p *Parser) parseTables(raw map[string]any, order keyOrder, source string) *Page {
	raw = normalizeTable(raw)
	page := &Page{
		Config:       newConfig(nil),
		Meta:         newMeta(nil),
		Translations: map[string]any{},
		Sidebar:      map[string]any{},
		Source:       Source{Body: source},
	}
	for _, key := range orderedKeys(raw, order.children()) {
		value := raw[key]
		clean := cleanKey(key)
		switch clean {
		case "config":
			page.Config = newConfig(AsMap(value))
		case "meta":
			page.Meta = newMeta(AsMap(value))
		case "translations":
			page.Translations = mapOrEmpty(value)
		case "sidebar":
			page.Sidebar = mapOrEmpty(value)
		case "tags":
			page.Tags = newRelations(AsMap(value), order.children(key))
		case "links":
			page.Links = newLinks(AsMap(value), order.children(key))
		case "relationships":
			page.Relationships = newRelations(AsMap(value), order.children(key))
		}
		if _, system := systemKeys[clean]; system {
			continue
		}
		block := Block{Type: blockType(clean), OriginalKey: clean, Data: value}
		if m, ok := value.(map[string]any); ok {
			block.Data = p.md.Fields(m)
		}
		page.Blocks = append(page.Blocks, block)
	}
	return page
}

func (p *Parser) parseMarkdown(src string) *Page {
	fm := map[string]any{}
	order := keyOrder{}
	frontmatter, body := "", src
	if m := frontmatterPattern.FindStringSubmatch(src); m != nil {
		frontmatter, body = m[1], m[2]
		if raw, o, err := decodeYAML([]byte(frontmatter)); err == nil {
			fm, order = normalizeTable(raw), o
		}
	}

	config := map[string]any{}
	for k, v := range AsMap(fm["config"]) {
		config[k] = v
	}
	if len(config) == 0 {
		for _, f := range flatFields {
			if v, ok := fm[f]; ok {
				config[f] = v
			}
		}
	}

	meta := AsMap(fm["meta"])
	if len(meta) == 0 {
		desc, ok := fm["description"]
		if !ok {
			desc = fm["excerpt"]
		}
		meta = map[string]any{"title": asString(config["title"]), "description": asString(desc)}
	}

	bodyHTML, toc := p.md.Article(body)
	excerpt := asString(fm["excerpt"])
	if excerpt == "" && body != "" {
		excerpt = Excerpt(body)
	}
	tags, ok := config["tags"].([]any)
	if !ok {
		tags = []any{}
	}
	article := Block{Type: "article", Data: map[string]any{
		"title":        asString(config["title"]),
		"date":         asString(config["date"]),
		"author":       asString(config["author"]),
		"tags":         tags,
		"category":     asString(config["category"]),
		"excerpt":      excerpt,
		"body":         bodyHTML,
		"reading_time": ReadingTime(body),
	}}
	config["toc"] = toc

	page := &Page{
		Config:       newConfig(config),
		Meta:         newMeta(meta),
		Translations: mapOrEmpty(fm["translations"]),
		Sidebar:      mapOrEmpty(fm["sidebar"]),
		Blocks:       []Block{article},
		Source:       Source{Frontmatter: frontmatter, Body: body},
	}
	if t, ok := fm["tags"].(map[string]any); ok {
		page.Tags = newRelations(t, order.children("tags"))
	}
	page.Relationships = newRelations(AsMap(fm["relationships"]), order.children("relationships"))
	page.Links = newLinks(AsMap(fm["links"]), order.children("links"))

	for _, key := range orderedKeys(fm, order.children()) {
		if _, system := markdownSystemKeys[key]; system {
			continue
		}
		value, ok := fm[key].(map[string]any)
		if !ok {
			continue
		}
		page.Blocks = append(page.Blocks, Block{Type: blockType(key), OriginalKey: key, Data: p.md.Fields(value)})
	}
	return page
}

func mapOrEmpty(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// normalizeTable rewrites decoder-specific shapes into map[string]any and
// []any so later stages only handle one representation.
func normalizeTable(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeTable(t)
	case []map[string]any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = normalizeTable(item)
		}
		return items
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = normalizeValue(item)
		}
		return items
	case int64:
		return int(t)
	default:
		return v
	}
}

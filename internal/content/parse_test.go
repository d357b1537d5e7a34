package content

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const serviceTOML = `
[config]
slug = "technical-seo"
type = "service"
menu = "Technical SEO"
price = 1200

[meta]
title = "Technical SEO Audit"
description = "Crawl, index, rank."

["^hero"]
title = "Fix what blocks rankings"
body = "We **audit** everything."
stats = [{ value = "120%", label = "traffic" }]

[_text_problem]
content = "Slow *pages*."

[relationships]
specialists = ["ivan", "maria"]
cases = "shop-migration"

[tags]
industries = ["ecommerce"]
categories = "seo"

[links]
service = "seo"

[sidebar]
unit_type = "project"

[log]
created = "2025-01-01"

["^_cta"]
title = "Talk to us"
`

func TestParseTOML(t *testing.T) {
	p := NewParser(nil)
	page, err := p.Parse("seo.en.toml", []byte(serviceTOML))
	require.NoError(t, err)

	require.Equal(t, "technical-seo", page.Slug())
	require.Equal(t, "service", page.EntityType())
	require.Equal(t, "Technical SEO", page.Name())
	require.Equal(t, "Technical SEO Audit", page.Title())
	require.Equal(t, 1200, page.Config.Extra["price"])

	require.Equal(t, Relations{
		{Key: "specialists", Targets: SlugList{"ivan", "maria"}},
		{Key: "cases", Targets: SlugList{"shop-migration"}},
	}, page.Relationships)
	require.Equal(t, SlugList{"seo"}, page.Tags.Get("categories"))
	require.Equal(t, "seo", page.Links.Get("service"))
	require.Equal(t, "project", page.Sidebar["unit_type"])

	require.Len(t, page.Blocks, 3)
	require.Equal(t, "hero", page.Blocks[0].Type)
	require.Equal(t, "hero", page.Blocks[0].OriginalKey)
	require.Equal(t, "text", page.Blocks[1].Type)
	require.Equal(t, "text_problem", page.Blocks[1].OriginalKey)
	require.Equal(t, "cta", page.Blocks[2].Type)

	hero, ok := page.Blocks[0].DataMap()
	require.True(t, ok)
	require.Contains(t, hero["body"], "<strong>audit</strong>")
	require.Equal(t, "Fix what blocks rankings", hero["title"])
	stats := AsList(hero["stats"])
	require.Len(t, stats, 1)
	require.Equal(t, "120%", AsMap(stats[0])["value"])

	text, _ := page.Blocks[1].DataMap()
	require.Contains(t, text["content"], "<em>pages</em>")
}

func TestParseYAMLPreservesOrder(t *testing.T) {
	src := `
config:
  slug: ivan
  type: specialist
meta:
  title: Ivan Petrov
relationships:
  languages: [russian, english]
  countries: germany
  services: [technical-seo]
faq:
  items:
    - question: Why?
      answer: "Because **reasons**."
`
	page, err := NewParser(nil).Parse("ivan.en.yml", []byte(src))
	require.NoError(t, err)

	var keys []string
	for _, r := range page.Relationships {
		keys = append(keys, r.Key)
	}
	require.Equal(t, []string{"languages", "countries", "services"}, keys)

	require.Len(t, page.Blocks, 1)
	faq, _ := page.Blocks[0].DataMap()
	item := AsMap(AsList(faq["items"])[0])
	require.Equal(t, "Why?", item["question"])
	require.Contains(t, item["answer"], "<strong>reasons</strong>")
}

func TestParseMarkdown(t *testing.T) {
	src := `---
title: Core Web Vitals in 2025
slug: cwv-2025
author: ivan
categories: [seo]
tags: [performance, seo]
description: What changed.
cta_bottom:
  title: Need help?
---
# Core Web Vitals

Google **changed** the [rules](/rules).

## Details

More text here.
`
	page, err := NewParser(nil).Parse("post.en.md", []byte(src))
	require.NoError(t, err)

	require.Equal(t, "cwv-2025", page.Slug())
	require.Equal(t, "Core Web Vitals in 2025", page.Meta.Title)
	require.Equal(t, "What changed.", page.Meta.Description)
	require.Equal(t, "ivan", page.Config.Extra["author"])
	require.Contains(t, page.Config.String("toc"), `href="#details"`)

	require.Len(t, page.Blocks, 2)
	article, _ := page.Blocks[0].DataMap()
	require.Equal(t, "article", page.Blocks[0].Type)
	require.Equal(t, "Google changed the rules(/rules).", article["excerpt"])
	require.Equal(t, 1, article["reading_time"])
	require.Contains(t, article["body"], `<h2 id="details">Details</h2>`)
	require.Equal(t, []any{"performance", "seo"}, article["tags"])

	require.Equal(t, "cta", page.Blocks[1].Type)
	require.Equal(t, "cta_bottom", page.Blocks[1].OriginalKey)
	require.Contains(t, page.Source.Frontmatter, "slug: cwv-2025")
}

func TestParseMarkdownWithoutFrontmatter(t *testing.T) {
	page, err := NewParser(nil).Parse("note.en.md", []byte("Just text."))
	require.NoError(t, err)
	require.Empty(t, page.Slug())
	require.Len(t, page.Blocks, 1)
	article, _ := page.Blocks[0].DataMap()
	require.Equal(t, "Just text.", article["excerpt"])
}

func TestParseUnsupported(t *testing.T) {
	_, err := NewParser(nil).Parse("x.en.json", []byte("{}"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoaderSkipsBrokenFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "services/seo/seo.en.toml", "[config]\nslug = \"seo\"\n")
	writeFile(t, root, "services/bad/bad.en.toml", "[config\nslug=")

	files, err := Discover(root, "en")
	require.NoError(t, err)

	loader := NewLoader(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	pages, problems := loader.Load(files, "en")
	require.Len(t, pages, 1)
	require.Len(t, problems, 1)

	p := pages[0]
	require.Equal(t, "/services/seo", p.Config.URL)
	require.Equal(t, "en", p.Config.Lang)
	require.Equal(t, "services", p.Config.Collection)
	require.Equal(t, "services", p.EntityType())
}

func TestNormalizeBlog(t *testing.T) {
	post := &Page{Collection: "blog", Config: Config{Slug: "p", Extra: map[string]any{
		"categories": []any{"seo", "ppc"},
		"author":     "ivan",
	}}}
	listing := &Page{Collection: "blog", IsListing: true, Config: Config{Extra: map[string]any{"author": "x"}}}
	service := &Page{Collection: "services", Config: Config{Extra: map[string]any{"author": "x"}}}

	require.Equal(t, 1, NormalizeBlog([]*Page{post, listing, service}))
	require.Equal(t, SlugList{"seo", "ppc"}, post.Tags.Get("categories"))
	require.Equal(t, SlugList{"ivan"}, post.Relationships.Get("author"))
	require.Empty(t, listing.Relationships)
	require.Empty(t, service.Relationships)
}

func TestInsertBlock(t *testing.T) {
	p := &Page{}
	p.InsertBlock(Block{Type: "related-entities"})
	require.Equal(t, "related-entities", p.Blocks[0].Type)

	p = &Page{Blocks: []Block{{Type: "hero"}, {Type: "cta"}}}
	p.InsertBlock(Block{Type: "related-entities"})
	require.Equal(t, []string{"hero", "related-entities", "cta"}, []string{p.Blocks[0].Type, p.Blocks[1].Type, p.Blocks[2].Type})
}

func TestHelpers(t *testing.T) {
	require.Equal(t, SlugList{"a"}, ToSlugList("a"))
	require.Nil(t, ToSlugList(""))
	require.Equal(t, SlugList{"a", "b"}, ToSlugList([]any{"a", 3, "", "b"}))
	require.Nil(t, ToSlugList(map[string]any{}))

	require.False(t, Truthy(0))
	require.False(t, Truthy(""))
	require.False(t, Truthy([]any{}))
	require.True(t, Truthy(1.5))
	require.Equal(t, "12.5", AsString(12.5))
	require.Equal(t, 1, ReadingTime("short"))
	require.Equal(t, 3, ReadingTime(strings.Repeat("word ", 600)))
}

func TestParseListValuedLinks(t *testing.T) {
	src := `[config]
slug = "kit"
type = "solution"

[links]
service = ["seo", "ppc"]
industry = "retail"
`
	page, err := NewParser(nil).Parse("kit.en.toml", []byte(src))
	require.NoError(t, err)

	require.Equal(t, Links{
		{Key: "service", Targets: SlugList{"seo", "ppc"}},
		{Key: "industry", Targets: SlugList{"retail"}},
	}, page.Links)
	require.Equal(t, "seo", page.Links.Get("service"))
	require.Equal(t, map[string]any{"service": []string{"seo", "ppc"}, "industry": "retail"}, page.Links.Map())
}

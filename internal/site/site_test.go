package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/util/sets"
)

func page(url, collection string, listing bool, menu, title string) *content.Page {
	return &content.Page{
		Path:       "content" + url + ".en.toml",
		URL:        url,
		Collection: collection,
		IsListing:  listing,
		Config:     content.Config{Menu: menu},
		Meta:       content.Meta{Title: title},
	}
}

func TestBuildNavigation(t *testing.T) {
	pages := []*content.Page{
		page("/", "", false, "Home", "Welcome"),
		page("/services", "services", true, "Services", ""),
		page("/services/seo", "services", false, "", "SEO"),
		page("/services/ppc", "services", false, "PPC", "Paid Search"),
		page("/blog/first", "blog", false, "", "First post"),
		page("/contact", "", false, "", ""),
	}

	nav := BuildNavigation(pages, []string{"/", "services", "blog", "/missing", "/contact"})

	require.Len(t, nav, 3)
	require.Equal(t, "Home", nav[0].Menu)
	require.Empty(t, nav[0].Children)

	require.Equal(t, "/services", nav[1].URL)
	require.Equal(t, []NavItem{
		{URL: "/services/seo", Menu: "SEO"},
		{URL: "/services/ppc", Menu: "PPC"},
	}, nav[1].Children)

	// blog has no listing page, so it stays out of the menu
	require.Equal(t, "/contact", nav[2].URL)
	require.Equal(t, "Untitled", nav[2].Menu)
}

func TestBuildNavigation_DefaultOrder(t *testing.T) {
	pages := []*content.Page{
		page("/contact/", "contact", true, "Contact", ""),
		page("/about", "", false, "About", ""),
		page("/", "", false, "Home", ""),
	}
	nav := BuildNavigation(pages, nil)

	// "contact" names a collection; top-level pages other than "/" need an
	// explicit entry.
	require.Len(t, nav, 2)
	require.Equal(t, "/", nav[0].URL)
	require.Equal(t, "/contact/", nav[1].URL)
	require.Equal(t, "Contact", nav[1].Menu)
	require.Empty(t, nav[1].Children)
}

func TestEntries(t *testing.T) {
	p := page("/services/seo", "services", false, "", "")
	p.Translations = map[string]any{"de": "/de/services/seo"}

	entries := Entries([]*content.Page{p, page("/", "", false, "Home", "Welcome")}, "en")

	require.Equal(t, Entry{
		URL: "/services/seo", Title: "Untitled", Menu: "Untitled", Lang: "en",
		Collection: "services", Translations: map[string]any{"de": "/de/services/seo"},
	}, entries[0])
	require.Equal(t, map[string]any{}, entries[1].Translations)
	require.Equal(t, "Welcome", entries[1].Title)
}

func TestSitemapAndRobots(t *testing.T) {
	dir := t.TempDir()
	pages := []*content.Page{
		page("/", "", false, "", ""),
		page("/services/seo", "services", false, "", ""),
	}

	path, err := WriteSitemap(dir, "https://vividigit.com/", pages)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	xmlDoc := string(data)

	require.True(t, strings.HasPrefix(xmlDoc, `<?xml version="1.0" encoding="UTF-8"?>`))
	require.Contains(t, xmlDoc, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Contains(t, xmlDoc, "<loc>https://vividigit.com/</loc>")
	require.Contains(t, xmlDoc, "<loc>https://vividigit.com/services/seo/</loc>")
	require.Equal(t, 2, strings.Count(xmlDoc, "<changefreq>weekly</changefreq>"))
	require.Equal(t, 2, strings.Count(xmlDoc, "<priority>0.8</priority>"))

	path, err = WriteRobots(dir, "https://vividigit.com/")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: https://vividigit.com/sitemap.xml\n", string(data))
}

func TestCopyAssets(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(src, "icons", "star.svg"), "<svg/>")
	writeFile(t, filepath.Join(src, "logo.png"), "png")
	writeFile(t, filepath.Join(src, ".DS_Store"), "x")
	writeFile(t, filepath.Join(src, ".cache", "tmp.bin"), "x")

	n, err := CopyAssets(src, out)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.FileExists(t, filepath.Join(out, "assets", "icons", "star.svg"))
	require.FileExists(t, filepath.Join(out, "assets", "logo.png"))
	require.NoFileExists(t, filepath.Join(out, "assets", ".DS_Store"))
	require.NoDirExists(t, filepath.Join(out, "assets", ".cache"))

	n, err = CopyAssets(filepath.Join(src, "missing"), out)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBlockValidation(t *testing.T) {
	root := t.TempDir()
	blocks := filepath.Join(root, "templates", "blocks")
	demos := filepath.Join(root, "content", "blocks")
	writeFile(t, filepath.Join(blocks, "hero.html"), "")
	writeFile(t, filepath.Join(blocks, "services-grid.html"), "")
	writeFile(t, filepath.Join(blocks, "cta.html"), "")
	writeFile(t, filepath.Join(blocks, "README.md"), "")
	writeFile(t, filepath.Join(demos, "hero", "hero.en.toml"), "")
	writeFile(t, filepath.Join(demos, "services-grid", "grid.en.toml"), "")
	writeFile(t, filepath.Join(demos, "cta", "cta.de.toml"), "")

	available := AvailableBlocks(blocks)
	require.Equal(t, sets.New("hero", "services-grid", "cta"), available)

	demo := DemoBlocks(demos, "en")
	require.Equal(t, sets.New("hero", "services_grid"), demo)

	require.Equal(t, []string{"Template 'cta' has no demo content in content/blocks/"}, ValidateBlocks(available, demo))

	p := &content.Page{Path: "content/services/seo.en.toml", Blocks: []content.Block{
		{Type: "hero"}, {Type: "services_grid"}, {Type: "faq"}, {Type: ""},
	}}
	require.Equal(t, sets.New("hero", "services-grid", "faq"), PageBlocks(p))
	require.Equal(t,
		[]string{"content/services/seo.en.toml: Block 'faq' has no template in " + blocks + "/"},
		ValidatePageBlocks(p, available, blocks))

	require.Zero(t, AvailableBlocks(filepath.Join(root, "nope")).Len())
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

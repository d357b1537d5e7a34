package site

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/export"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Entry describes one page for templates (language switchers, footers).
type Entry struct {
	URL          string         `json:"url"`
	Title        string         `json:"title"`
	Menu         string         `json:"menu"`
	Lang         string         `json:"lang"`
	Collection   string         `json:"collection,omitempty"`
	Translations map[string]any `json:"translations"`
}

// Entries lists every page of a language build in discovery order.
func Entries(pages []*content.Page, lang string) []Entry {
	out := make([]Entry, 0, len(pages))
	for _, p := range pages {
		tr := p.Translations
		if tr == nil {
			tr = map[string]any{}
		}
		title := p.Title()
		if title == "" {
			title = "Untitled"
		}
		out = append(out, Entry{
			URL:          p.URL,
			Title:        title,
			Menu:         p.MenuLabel(),
			Lang:         lang,
			Collection:   p.Collection,
			Translations: tr,
		})
	}
	return out
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// AbsoluteURL joins domain and a page URL, always ending in "/".
func AbsoluteURL(domain, url string) string {
	full := strings.TrimRight(domain, "/") + url
	if !strings.HasSuffix(full, "/") {
		full += "/"
	}
	return full
}

// RenderSitemap produces sitemap.xml for pages under domain.
func RenderSitemap(domain string, pages []*content.Page) ([]byte, error) {
	set := urlset{Xmlns: sitemapNamespace, URLs: make([]sitemapURL, 0, len(pages))}
	for _, p := range pages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        AbsoluteURL(domain, p.URL),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSitemap writes <dir>/sitemap.xml.
func WriteSitemap(dir, domain string, pages []*content.Page) (string, error) {
	data, err := RenderSitemap(domain, pages)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "sitemap.xml")
	return path, export.WriteFile(path, data)
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(domain string) string {
	return fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", strings.TrimRight(domain, "/"))
}

// WriteRobots writes <dir>/robots.txt.
func WriteRobots(dir, domain string) (string, error) {
	path := filepath.Join(dir, "robots.txt")
	return path, export.WriteFile(path, []byte(Robots(domain)))
}

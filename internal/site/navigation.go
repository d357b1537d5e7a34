// Package site produces the site-wide artifacts of a language build: the
// navigation tree and sitemap list handed to templates, sitemap.xml,
// robots.txt, the shared asset copy and block template validation.
package site

import (
	"strings"

	"github.com/vividigit/sitebuilder/internal/config"
	"github.com/vividigit/sitebuilder/internal/content"
)

// NavItem is one menu entry. Collection entries carry their items as children.
type NavItem struct {
	URL      string    `json:"url"`
	Menu     string    `json:"menu"`
	Children []NavItem `json:"children"`
}

type navCollection struct {
	listing *NavItem
	items   []NavItem
}

// BuildNavigation lays out the menu in order. Entries starting with "/" are
// top-level page URLs; anything else names a collection, which appears only
// when it has a listing page. Unknown entries are skipped.
func BuildNavigation(pages []*content.Page, order []string) []NavItem {
	if len(order) == 0 {
		order = config.DefaultNavigationOrder
	}

	collections := make(map[string]*navCollection)
	top := make(map[string]NavItem)
	for _, p := range pages {
		item := NavItem{URL: p.URL, Menu: p.MenuLabel()}
		if p.Collection == "" {
			item.Children = []NavItem{}
			top[p.URL] = item
			continue
		}
		c, ok := collections[p.Collection]
		if !ok {
			c = &navCollection{items: []NavItem{}}
			collections[p.Collection] = c
		}
		if p.IsListing {
			c.listing = &item
		} else {
			c.items = append(c.items, item)
		}
	}

	nav := make([]NavItem, 0, len(order))
	for _, entry := range order {
		if strings.HasPrefix(entry, "/") {
			if item, ok := top[entry]; ok {
				nav = append(nav, item)
			}
			continue
		}
		c, ok := collections[entry]
		if !ok || c.listing == nil {
			continue
		}
		nav = append(nav, NavItem{URL: c.listing.URL, Menu: c.listing.Menu, Children: c.items})
	}
	return nav
}

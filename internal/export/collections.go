package export

import (
	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/util/fallback"
)

// CollectionItem is one entry of data/<collection>.json.
type CollectionItem struct {
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Lang        string `json:"lang"`
	Category    string `json:"category"`
	Tags        any    `json:"tags"`
	Price       any    `json:"price"`
	Featured    any    `json:"featured"`
	Date        string `json:"date"`
	Author      string `json:"author"`
	Type        string `json:"type"`
}

// Collection is the exported item list of one collection.
type Collection struct {
	Name  string
	Items []CollectionItem
}

// BuildCollections groups non-listing collection pages by collection, in
// order of first appearance.
func BuildCollections(pages []*content.Page, defaultLang string) []Collection {
	var out []Collection
	pos := map[string]int{}
	for _, p := range pages {
		if p.Collection == "" || p.IsListing {
			continue
		}
		i, ok := pos[p.Collection]
		if !ok {
			i = len(out)
			pos[p.Collection] = i
			out = append(out, Collection{Name: p.Collection})
		}
		out[i].Items = append(out[i].Items, collectionItem(p, defaultLang))
	}
	return out
}

func collectionItem(p *content.Page, defaultLang string) CollectionItem {
	extra := p.Config.Extra
	tags := extra["tags"]
	if tags == nil {
		tags = []any{}
	}
	featured := extra["featured"]
	if featured == nil {
		featured = false
	}
	date := ""
	if content.Truthy(extra["date"]) {
		date = content.AsString(extra["date"])
	}
	return CollectionItem{
		Slug:        p.Config.Slug,
		URL:         p.Config.URL,
		Title:       fallback.First(p.Meta.Title, p.Config.Title),
		Description: p.Meta.Description,
		Lang:        fallback.First(p.Config.Lang, defaultLang),
		Category:    content.AsString(extra["category"]),
		Tags:        tags,
		Price:       extra["price"],
		Featured:    featured,
		Date:        date,
		Author:      content.AsString(extra["author"]),
		Type:        p.Config.Type,
	}
}

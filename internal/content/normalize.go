package content

const blogCollection = "blog"

// NormalizeBlog maps blog front matter onto the relationship model: items of
// the blog collection get tags.categories from config.categories and
// relationships.author from config.author. Returns the number of pages changed.
func NormalizeBlog(pages []*Page) int {
	changed := 0
	for _, p := range pages {
		if p.Collection != blogCollection || p.IsListing {
			continue
		}
		touched := false
		if cats := ToSlugList(p.Config.Extra["categories"]); len(cats) > 0 {
			p.Tags.Set("categories", cats)
			touched = true
		}
		if author := ToSlugList(p.Config.Extra["author"]); len(author) > 0 {
			p.Relationships.Set("author", author)
			touched = true
		}
		if touched {
			changed++
		}
	}
	return changed
}

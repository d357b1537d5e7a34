package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vividigit/sitebuilder/internal/content"
)

func page(slug, collection, typ string) *content.Page {
	return &content.Page{
		Collection: collection,
		Config:     content.Config{Slug: slug, Type: typ, Collection: collection, URL: "/" + collection + "/" + slug},
		Meta:       content.Meta{Title: slug + " title", Description: slug + " description"},
	}
}

func TestBuildSkipsListingsAndSlugless(t *testing.T) {
	listing := page("services", "services", "")
	listing.IsListing = true
	noSlug := page("", "services", "")
	seo := page("seo", "services", "service")
	ivan := page("ivan", "team", "")

	c := Build([]*content.Page{listing, noSlug, seo, ivan})

	require.Equal(t, []string{"seo", "ivan"}, c.Slugs())
	require.False(t, c.Has("services"))

	card, ok := c.Get("ivan")
	require.True(t, ok)
	require.Equal(t, "team", card.Type, "type falls back to collection")
	require.Equal(t, "/team/ivan", card.URL)
}

func TestCaseResults(t *testing.T) {
	withStats := page("shop", "cases", "case")
	withStats.Blocks = []content.Block{
		{Type: "hero", Data: map[string]any{"title": "no stats"}},
		{Type: "hero", Data: map[string]any{"stats": []any{
			map[string]any{"value": "+120%", "label": "traffic"},
			map[string]any{"value": 3, "label": "markets"},
		}}},
	}
	bare := page("bare", "cases", "case")

	c := Build([]*content.Page{withStats, bare})

	card, _ := c.Get("shop")
	require.Equal(t, []Result{{Value: "+120%", Label: "traffic"}, {Value: "3", Label: "markets"}}, card.Results)

	card, _ = c.Get("bare")
	require.NotNil(t, card.Results)
	require.Empty(t, card.Results)
}

func TestSolutionStartingPrice(t *testing.T) {
	sol := page("ecom", "solutions", "solution")
	sol.Links = content.Links{{Key: "service", Targets: content.SlugList{"seo"}}}
	sol.Blocks = []content.Block{
		{Type: "pricing", Data: map[string]any{"packages": []any{
			map[string]any{"price": 0},
			map[string]any{"price": 900},
			map[string]any{"price": 450.5},
			map[string]any{"name": "custom"},
		}}},
		{Type: "pricing", Data: map[string]any{"packages": []any{map[string]any{"price": 1}}}},
	}
	free := page("free", "solutions", "solution")
	free.Blocks = []content.Block{{Type: "pricing", Data: map[string]any{"packages": []any{map[string]any{"price": 0}}}}}

	c := Build([]*content.Page{sol, free})

	card, _ := c.Get("ecom")
	require.NotNil(t, card.StartingPrice)
	require.InDelta(t, 450.5, *card.StartingPrice, 0.0001)
	require.Equal(t, map[string]any{"service": "seo"}, card.Links)

	card, _ = c.Get("free")
	require.Nil(t, card.StartingPrice)
	require.Nil(t, card.Map()["starting_price"])
}

func TestGetReturnsCopy(t *testing.T) {
	c := Build([]*content.Page{page("seo", "services", "service")})
	card, _ := c.Get("seo")
	n := 3
	card.ServiceCount = &n

	again, _ := c.Get("seo")
	require.Nil(t, again.ServiceCount)
}

func TestLabel(t *testing.T) {
	seo := page("seo", "services", "service")
	seo.Config.Menu = "SEO"
	untitled := page("plain", "services", "service")
	untitled.Meta.Title = ""

	c := Build([]*content.Page{seo, untitled})
	require.Equal(t, "SEO", c.Label("seo"))
	require.Equal(t, "plain", c.Label("plain"))
	require.Equal(t, "unknown", c.Label("unknown"))
}

package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vividigit/sitebuilder/internal/content"
)

func entity(slug, typ string, rels content.Relations) *content.Page {
	return &content.Page{
		Collection:    "x",
		Config:        content.Config{Slug: slug, Type: typ, URL: "/" + slug},
		Meta:          content.Meta{Title: slug + "!", Description: "about " + slug},
		Relationships: rels,
	}
}

func TestBuildAndExport(t *testing.T) {
	seo := entity("seo", "service", content.Relations{
		{Key: "specialists", Targets: content.SlugList{"ivan", "ghost"}},
	})
	ivan := entity("ivan", "specialist", nil)
	listing := entity("services", "", nil)
	listing.IsListing = true

	g := Build([]*content.Page{seo, ivan, listing})
	require.Equal(t, 2, g.Len())
	_, ok := g.Get("services")
	require.False(t, ok)

	exp := g.Export()
	require.Len(t, exp.Nodes, 2)
	require.Equal(t, ExportNode{Type: "service", Title: "seo!", URL: "/seo"}, exp.Nodes["seo"])
	require.Equal(t, []Edge{
		{From: "seo", To: "ivan", Type: "specialists"},
		{From: "seo", To: "ghost", Type: "specialists"},
	}, exp.Edges)
}

func TestResolveSourceBlocks(t *testing.T) {
	seo := entity("seo", "service", content.Relations{
		{Key: "specialists", Targets: content.SlugList{"ghost", "ivan"}},
	})
	seo.Blocks = []content.Block{
		{Type: BlockType, Data: map[string]any{"source": "specialists"}},
		{Type: BlockType, Data: map[string]any{"title": "no source"}},
		{Type: BlockType, Data: map[string]any{"source": "specialists", "items": []any{"manual"}}},
		{Type: "hero", Data: map[string]any{"source": "specialists"}},
	}
	ivan := entity("ivan", "specialist", nil)
	orphan := &content.Page{Blocks: []content.Block{{Type: BlockType, Data: map[string]any{"source": "cases"}}}}

	g := Build([]*content.Page{seo, ivan})
	n := ResolveSourceBlocks([]*content.Page{seo, orphan}, g)
	require.Equal(t, 2, n)

	first, _ := seo.Blocks[0].DataMap()
	require.Equal(t, []any{map[string]any{
		"title": "ivan!", "url": "/ivan", "description": "about ivan", "badge": "specialist",
	}}, first["items"])

	second, _ := seo.Blocks[1].DataMap()
	require.Equal(t, []any{}, second["items"])

	third, _ := seo.Blocks[2].DataMap()
	require.Equal(t, []any{"manual"}, third["items"])

	hero, _ := seo.Blocks[3].DataMap()
	require.NotContains(t, hero, "items")

	orphanData, _ := orphan.Blocks[0].DataMap()
	require.Equal(t, []any{}, orphanData["items"])
}

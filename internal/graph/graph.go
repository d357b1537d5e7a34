// Package graph holds the forward relationship graph: one node per entity
// page with the relationships it declares. Reverse edges live in the
// association package.
package graph

import (
	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/util/fallback"
)

// BlockType is the block populated from the graph.
const BlockType = "related-entities"

// Node is one entity in the graph.
type Node struct {
	Type          string
	URL           string
	Title         string
	Description   string
	Relationships content.Relations
}

// Graph maps slugs to nodes and remembers insertion order.
type Graph struct {
	order []string
	nodes map[string]Node
}

// Build registers every non-listing page with a slug.
func Build(pages []*content.Page) *Graph {
	g := &Graph{nodes: map[string]Node{}}
	for _, p := range pages {
		if !p.IsEntity() {
			continue
		}
		slug := p.Slug()
		if _, seen := g.nodes[slug]; !seen {
			g.order = append(g.order, slug)
		}
		g.nodes[slug] = Node{
			Type:          fallback.First(p.Config.Type, p.Config.Collection, p.Collection),
			URL:           p.Config.URL,
			Title:         p.Meta.Title,
			Description:   p.Meta.Description,
			Relationships: p.Relationships,
		}
	}
	return g
}

// Get returns the node for slug.
func (g *Graph) Get(slug string) (Node, bool) {
	n, ok := g.nodes[slug]
	return n, ok
}

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Item is a resolved entry of a related-entities block.
type Item struct {
	Title       string
	URL         string
	Description string
	Badge       string
}

func (i Item) toMap() map[string]any {
	return map[string]any{"title": i.Title, "url": i.URL, "description": i.Description, "badge": i.Badge}
}

// Resolve returns the items for the targets slug declares under source.
// Targets missing from the graph are skipped.
func (g *Graph) Resolve(slug, source string) []Item {
	node, ok := g.nodes[slug]
	if !ok {
		return []Item{}
	}
	items := []Item{}
	for _, target := range node.Relationships.Get(source) {
		t, ok := g.nodes[target]
		if !ok {
			continue
		}
		items = append(items, Item{Title: t.Title, URL: t.URL, Description: t.Description, Badge: t.Type})
	}
	return items
}

// ResolveSourceBlocks fills the items of related-entities blocks that name a
// relationship source. Blocks with manual items are left alone; blocks
// without a source get an empty items list. Returns the number of blocks
// populated from the graph.
func ResolveSourceBlocks(pages []*content.Page, g *Graph) int {
	resolved := 0
	for _, p := range pages {
		for i := range p.Blocks {
			b := &p.Blocks[i]
			if b.Type != BlockType {
				continue
			}
			data, ok := b.DataMap()
			if !ok {
				data = map[string]any{}
				b.Data = data
			}
			if content.Truthy(data["items"]) {
				continue
			}
			source := content.AsString(data["source"])
			if source == "" {
				if _, has := data["items"]; !has {
					data["items"] = []any{}
				}
				continue
			}
			items := g.Resolve(p.Slug(), source)
			list := make([]any, len(items))
			for j, it := range items {
				list[j] = it.toMap()
			}
			data["items"] = list
			resolved++
		}
	}
	return resolved
}

// ExportNode is the client-side view of a node.
type ExportNode struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Edge is one declared relationship target.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Export is the graph.json document.
type Export struct {
	Nodes map[string]ExportNode `json:"nodes"`
	Edges []Edge                `json:"edges"`
}

// Export lists every node and one edge per declared target, resolvable or
// not, in declaration order.
func (g *Graph) Export() Export {
	out := Export{Nodes: make(map[string]ExportNode, len(g.order)), Edges: []Edge{}}
	for _, slug := range g.order {
		n := g.nodes[slug]
		out.Nodes[slug] = ExportNode{Type: n.Type, Title: n.Title, URL: n.URL}
		for _, rel := range n.Relationships {
			for _, target := range rel.Targets {
				out.Edges = append(out.Edges, Edge{From: slug, To: target, Type: rel.Key})
			}
		}
	}
	return out
}

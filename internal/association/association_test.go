package association

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vividigit/sitebuilder/internal/catalog"
	"github.com/vividigit/sitebuilder/internal/content"
)

type pageOpt func(*content.Page)

func rel(key string, targets ...string) pageOpt {
	return func(p *content.Page) { p.Relationships.Set(key, targets) }
}

func tag(dim string, targets ...string) pageOpt {
	return func(p *content.Page) { p.Tags.Set(dim, targets) }
}

func link(key string, targets ...string) pageOpt {
	return func(p *content.Page) { p.Links = append(p.Links, content.Link{Key: key, Targets: targets}) }
}

func entity(collection, slug, typ string, opts ...pageOpt) *content.Page {
	p := &content.Page{
		Collection: collection,
		Config:     content.Config{Slug: slug, Type: typ, Collection: collection, URL: "/" + collection + "/" + slug},
		Meta:       content.Meta{Title: slug},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func build(pages ...*content.Page) *Map {
	return Build(catalog.Build(pages))
}

func slugs(m *Map, slug, group string) []string {
	r, _ := m.Get(slug)
	return r.Slugs(group)
}

func TestForwardAndReverse(t *testing.T) {
	m := build(
		entity("services", "seo", "service", rel("specialists", "ivan")),
		entity("team", "ivan", "specialist"),
	)

	require.Equal(t, []string{"ivan"}, slugs(m, "seo", "specialists"))
	require.Equal(t, []string{"seo"}, slugs(m, "ivan", "services"))
}

func TestTagsAreMutual(t *testing.T) {
	m := build(
		entity("services", "seo", "service", tag("categories", "seo-cat")),
		entity("categories", "seo-cat", "category"),
	)

	require.Equal(t, []string{"seo-cat"}, slugs(m, "seo", "categories"))
	require.Equal(t, []string{"seo"}, slugs(m, "seo-cat", "services"))
}

func TestListingExcluded(t *testing.T) {
	listing := entity("services", "services", "", rel("specialists", "ivan"))
	listing.IsListing = true

	m := build(listing, entity("team", "ivan", "specialist"))

	require.False(t, m.Has("services"))
	require.Empty(t, slugs(m, "ivan", "services"))
}

func TestEntityWithoutDeclarationsHasEmptyEntry(t *testing.T) {
	m := build(entity("team", "ivan", "specialist"))

	r, ok := m.Get("ivan")
	require.True(t, ok)
	require.Zero(t, r.Len())
	require.Equal(t, 1, m.Len())
}

func TestDedupAcrossPasses(t *testing.T) {
	m := build(
		entity("services", "seo", "service",
			rel("specialists", "ivan"),
			rel("authors", "ivan", "ivan"),
			tag("team", "ivan"),
		),
		entity("team", "ivan", "specialist", rel("services", "seo")),
	)

	require.Equal(t, []string{"ivan"}, slugs(m, "seo", "specialists"))
	require.Equal(t, []string{"seo"}, slugs(m, "ivan", "services"))
	require.Equal(t, 2, m.Count())
}

func TestUnresolvableTargetsSkipped(t *testing.T) {
	m := build(entity("services", "seo", "service",
		rel("specialists", "ghost"),
		tag("industries", "nowhere"),
		link("parent", "missing"),
	))

	r, _ := m.Get("seo")
	require.Zero(t, r.Len())
	require.False(t, m.Has("ghost"))
}

func TestLinksAreMutual(t *testing.T) {
	m := build(
		entity("solutions", "shop-kit", "solution", link("service", "seo"), link("industry", "ecommerce")),
		entity("services", "seo", "service"),
		entity("industries", "ecommerce", "industry"),
	)

	require.Equal(t, []string{"seo"}, slugs(m, "shop-kit", "services"))
	require.Equal(t, []string{"ecommerce"}, slugs(m, "shop-kit", "industries"))
	require.Equal(t, []string{"shop-kit"}, slugs(m, "seo", "solutions"))
	require.Equal(t, []string{"shop-kit"}, slugs(m, "ecommerce", "solutions"))
}

func TestListValuedLinks(t *testing.T) {
	m := build(
		entity("solutions", "kit", "solution", link("service", "seo", "ppc"), link("industry", "retail")),
		entity("services", "seo", "service"),
		entity("services", "ppc", "service"),
		entity("industries", "retail", "industry"),
	)

	require.Equal(t, []string{"seo", "ppc"}, slugs(m, "kit", "services"))
	require.Equal(t, []string{"retail"}, slugs(m, "kit", "industries"))
	require.Equal(t, []string{"kit"}, slugs(m, "seo", "solutions"))
	require.Equal(t, []string{"kit"}, slugs(m, "ppc", "solutions"))
}

func TestInsertionOrderFollowsPasses(t *testing.T) {
	m := build(
		entity("services", "seo", "service", tag("industries", "retail")),
		entity("services", "ppc", "service"),
		entity("industries", "retail", "industry"),
		entity("industries", "ecommerce", "industry", rel("services", "ppc")),
	)
	// ecommerce→ppc is forward on ecommerce; seo tagged retail adds the reverse later.
	require.Equal(t, []string{"ppc"}, slugs(m, "ecommerce", "services"))
	require.Equal(t, []string{"seo"}, slugs(m, "retail", "services"))

	r, _ := m.Get("ppc")
	require.Equal(t, []string{"industries"}, r.Groups())
}

func TestUnknownCollectionGroupedVerbatim(t *testing.T) {
	m := build(
		entity("services", "seo", "service", rel("tools", "crawler")),
		entity("tools", "crawler", "tool"),
	)
	require.Equal(t, []string{"crawler"}, slugs(m, "seo", "tools"))
	require.Equal(t, "blog-posts", GroupKey("blog"))
	require.Equal(t, "specialists", GroupKey("team"))
}

func TestServiceCountOnListCopies(t *testing.T) {
	m := build(
		entity("services", "seo", "service", tag("industries", "ecommerce")),
		entity("services", "ppc", "service", tag("industries", "ecommerce")),
		entity("services", "cro", "service", rel("industries", "ecommerce")),
		entity("team", "ivan", "specialist", rel("industries", "ecommerce")),
		entity("industries", "ecommerce", "industry"),
	)

	require.Len(t, slugs(m, "ecommerce", "services"), 3)
	for _, holder := range []string{"seo", "ppc", "cro", "ivan"} {
		r, _ := m.Get(holder)
		cards := r.Get("industries")
		require.Len(t, cards, 1, holder)
		require.NotNil(t, cards[0].ServiceCount, holder)
		require.Equal(t, 3, *cards[0].ServiceCount, holder)
	}

	canonical, _ := m.Catalog.Get("ecommerce")
	require.Nil(t, canonical.ServiceCount)

	r, _ := m.Get("ecommerce")
	for _, c := range r.Get("services") {
		require.Nil(t, c.ServiceCount, "service cards are not counted")
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	cat := catalog.Build([]*content.Page{
		entity("services", "seo", "service", rel("specialists", "ivan"), tag("categories", "marketing")),
		entity("team", "ivan", "specialist", rel("languages", "english")),
		entity("categories", "marketing", "category"),
		entity("languages", "english", "language"),
		entity("solutions", "kit", "solution", link("service", "seo")),
	})

	first := Build(cat)
	second := Build(cat)
	require.Equal(t, first, second)
}

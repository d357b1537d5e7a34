package export

import (
	"strings"

	"github.com/vividigit/sitebuilder/internal/association"
	"github.com/vividigit/sitebuilder/internal/catalog"
	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/related"
)

// Facets maps a section to related slugs.
type Facets = map[string][]string

// Labels maps a section to slug → display label.
type Labels = map[string]map[string]string

// ServiceEntry is one row of services-index.json.
type ServiceEntry struct {
	Slug            string `json:"slug"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Rating          any    `json:"rating,omitempty"`
	FromPrice       any    `json:"from_price,omitempty"`
	Delivery        any    `json:"delivery,omitempty"`
	SpecialistCount int    `json:"specialist_count"`
	Facets          Facets `json:"facets"`
}

// ServicesIndex is services-index.json.
type ServicesIndex struct {
	Services []ServiceEntry `json:"services"`
	Labels   Labels         `json:"labels"`
}

// SpecialistEntry is one row of team.json.
type SpecialistEntry struct {
	Slug        string   `json:"slug"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Role        string   `json:"role"`
	Avatar      string   `json:"avatar"`
	Rating      any      `json:"rating"`
	Projects    any      `json:"projects"`
	HourlyRate  any      `json:"hourly_rate"`
	Languages   []string `json:"languages"`
	Countries   []string `json:"countries"`
	Tasks       []string `json:"tasks"`
	Cases       []string `json:"cases"`
	Facets      Facets   `json:"facets"`
}

// TeamIndex is team.json.
type TeamIndex struct {
	Specialists []SpecialistEntry `json:"specialists"`
	Labels      Labels            `json:"labels"`
}

// CaseEntry is one row of cases.json.
type CaseEntry struct {
	Slug        string           `json:"slug"`
	URL         string           `json:"url"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Client      string           `json:"client"`
	Image       string           `json:"image"`
	Industry    any              `json:"industry"`
	Country     any              `json:"country"`
	Language    any              `json:"language"`
	Results     []catalog.Result `json:"results"`
	Facets      Facets           `json:"facets"`
}

// CasesIndex is cases.json.
type CasesIndex struct {
	Cases  []CaseEntry `json:"cases"`
	Labels Labels      `json:"labels"`
}

// SolutionEntry is one row of solutions-index.json.
type SolutionEntry struct {
	Slug          string   `json:"slug"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Service       string   `json:"service"`
	Industry      string   `json:"industry"`
	StartingPrice *float64 `json:"starting_price"`
	Facets        Facets   `json:"facets"`
}

// SolutionsIndex is solutions-index.json.
type SolutionsIndex struct {
	Solutions []SolutionEntry `json:"solutions"`
	Labels    Labels          `json:"labels"`
}

// CategoryEntry is one row of categories-index.json.
type CategoryEntry struct {
	Slug            string `json:"slug"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Menu            string `json:"menu"`
	DoorOpenerPrice any    `json:"door_opener_price"`
	ServiceCount    int    `json:"service_count"`
}

// DimensionEntry is one row of the industries, countries and languages
// indexes. Icon, Flag and Code are only emitted where they apply.
type DimensionEntry struct {
	Slug         string  `json:"slug"`
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Menu         string  `json:"menu"`
	Icon         *string `json:"icon,omitempty"`
	Flag         *string `json:"flag,omitempty"`
	Code         string  `json:"code,omitempty"`
	ServiceCount int     `json:"service_count"`
}

func selects(p *content.Page, entityType, collection string) bool {
	if !p.IsEntity() {
		return false
	}
	return p.Config.Type == entityType || (collection != "" && p.Config.Collection == collection)
}

func facetsFor(slug string, m *association.Map, exclude string) Facets {
	if m == nil {
		return Facets{}
	}
	return related.Facets(slug, m, exclude)
}

func labelsFor(facets []Facets, m *association.Map) Labels {
	if m == nil {
		return Labels{}
	}
	return related.Labels(facets, m.Catalog)
}

// truthyOrNil drops empty values so omitempty fields disappear.
func truthyOrNil(v any) any {
	if content.Truthy(v) {
		return v
	}
	return nil
}

func strPtr(s string) *string { return &s }

// single renders a relationship the way it reads in content: "" when absent,
// a string for one target, a list otherwise.
func single(rels content.Relations, key string) any {
	targets := rels.Get(key)
	switch len(targets) {
	case 0:
		return ""
	case 1:
		return targets[0]
	default:
		return []string(targets)
	}
}

func list(rels content.Relations, key string) []string {
	out := []string(rels.Get(key))
	if out == nil {
		return []string{}
	}
	return out
}

// BuildServicesIndex collects service pages with their facets.
func BuildServicesIndex(pages []*content.Page, m *association.Map) ServicesIndex {
	idx := ServicesIndex{Services: []ServiceEntry{}}
	var facets []Facets
	for _, p := range pages {
		if !selects(p, "service", "services") {
			continue
		}
		e := ServiceEntry{
			Slug:            p.Slug(),
			URL:             p.Config.URL,
			Title:           p.Meta.Title,
			Description:     p.Meta.Description,
			Rating:          truthyOrNil(p.Config.Extra["rating"]),
			FromPrice:       truthyOrNil(p.Config.Extra["price"]),
			Delivery:        truthyOrNil(p.Config.Extra["delivery"]),
			SpecialistCount: len(p.Relationships.Get("specialists")),
			Facets:          facetsFor(p.Slug(), m, "services"),
		}
		facets = append(facets, e.Facets)
		idx.Services = append(idx.Services, e)
	}
	idx.Labels = labelsFor(facets, m)
	return idx
}

// BuildTeamIndex collects specialist pages.
func BuildTeamIndex(pages []*content.Page, m *association.Map) TeamIndex {
	idx := TeamIndex{Specialists: []SpecialistEntry{}}
	var facets []Facets
	for _, p := range pages {
		if !selects(p, "specialist", "team") {
			continue
		}
		e := SpecialistEntry{
			Slug:        p.Slug(),
			URL:         p.Config.URL,
			Title:       p.Meta.Title,
			Description: p.Meta.Description,
			Role:        content.AsString(p.Sidebar["role"]),
			Avatar:      p.Config.String("avatar"),
			Rating:      p.Sidebar["rating"],
			Projects:    p.Sidebar["projects"],
			HourlyRate:  p.Sidebar["hourly_rate"],
			Languages:   list(p.Relationships, "languages"),
			Countries:   list(p.Relationships, "countries"),
			Tasks:       list(p.Relationships, "tasks"),
			Cases:       list(p.Relationships, "cases"),
			Facets:      facetsFor(p.Slug(), m, "specialists"),
		}
		facets = append(facets, e.Facets)
		idx.Specialists = append(idx.Specialists, e)
	}
	idx.Labels = labelsFor(facets, m)
	return idx
}

// BuildCasesIndex collects case studies with their headline results.
func BuildCasesIndex(pages []*content.Page, m *association.Map) CasesIndex {
	idx := CasesIndex{Cases: []CaseEntry{}}
	var facets []Facets
	for _, p := range pages {
		if !selects(p, "case", "cases") {
			continue
		}
		e := CaseEntry{
			Slug:        p.Slug(),
			URL:         p.Config.URL,
			Title:       p.Meta.Title,
			Description: p.Meta.Description,
			Client:      p.Config.String("client"),
			Image:       p.Config.String("image"),
			Industry:    single(p.Relationships, "industry"),
			Country:     single(p.Relationships, "country"),
			Language:    single(p.Relationships, "language"),
			Results:     heroResults(p.Blocks),
			Facets:      facetsFor(p.Slug(), m, "cases"),
		}
		facets = append(facets, e.Facets)
		idx.Cases = append(idx.Cases, e)
	}
	idx.Labels = labelsFor(facets, m)
	return idx
}

// heroResults reads stats from the first hero block, whatever it declares.
func heroResults(blocks []content.Block) []catalog.Result {
	results := []catalog.Result{}
	for _, b := range blocks {
		if b.Type != "hero" {
			continue
		}
		data, _ := b.DataMap()
		for _, s := range content.AsList(data["stats"]) {
			stat := content.AsMap(s)
			results = append(results, catalog.Result{
				Value: content.AsString(stat["value"]),
				Label: content.AsString(stat["label"]),
			})
		}
		break
	}
	return results
}

// BuildSolutionsIndex collects solutions with their parent links and price.
func BuildSolutionsIndex(pages []*content.Page, m *association.Map) SolutionsIndex {
	idx := SolutionsIndex{Solutions: []SolutionEntry{}}
	var facets []Facets
	for _, p := range pages {
		if !selects(p, "solution", "solutions") {
			continue
		}
		e := SolutionEntry{
			Slug:          p.Slug(),
			URL:           p.Config.URL,
			Title:         p.Meta.Title,
			Description:   p.Meta.Description,
			Service:       p.Links.Get("service"),
			Industry:      p.Links.Get("industry"),
			StartingPrice: firstPricing(p.Blocks),
			Facets:        facetsFor(p.Slug(), m, "solutions"),
		}
		facets = append(facets, e.Facets)
		idx.Solutions = append(idx.Solutions, e)
	}
	idx.Labels = labelsFor(facets, m)
	return idx
}

// firstPricing looks only at the first pricing block.
func firstPricing(blocks []content.Block) *float64 {
	for _, b := range blocks {
		if b.Type == "pricing" {
			return catalog.StartingPrice([]content.Block{b})
		}
	}
	return nil
}

// BuildCategoriesIndex lists categories with the number of services tagged
// with each.
func BuildCategoriesIndex(pages []*content.Page, tags TagIndex) []CategoryEntry {
	out := []CategoryEntry{}
	for _, p := range pages {
		if !selects(p, "category", "categories") {
			continue
		}
		out = append(out, CategoryEntry{
			Slug:            p.Slug(),
			URL:             p.Config.URL,
			Title:           p.Meta.Title,
			Description:     p.Meta.Description,
			Menu:            p.Config.Menu,
			DoorOpenerPrice: p.Config.Extra["door_opener_price"],
			ServiceCount:    tags.Count("categories", p.Slug()),
		})
	}
	return out
}

func dimensionEntry(p *content.Page, tags TagIndex, dimension string) DimensionEntry {
	return DimensionEntry{
		Slug:         p.Slug(),
		URL:          p.Config.URL,
		Title:        p.Meta.Title,
		Description:  p.Meta.Description,
		Menu:         p.Config.Menu,
		ServiceCount: tags.Count(dimension, p.Slug()),
	}
}

// BuildIndustriesIndex lists industry pages.
func BuildIndustriesIndex(pages []*content.Page, tags TagIndex) []DimensionEntry {
	out := []DimensionEntry{}
	for _, p := range pages {
		if !selects(p, "industry", "") {
			continue
		}
		e := dimensionEntry(p, tags, "industries")
		e.Icon = strPtr(p.Config.String("icon"))
		out = append(out, e)
	}
	return out
}

// BuildCountriesIndex lists country pages.
func BuildCountriesIndex(pages []*content.Page, tags TagIndex) []DimensionEntry {
	out := []DimensionEntry{}
	for _, p := range pages {
		if !selects(p, "country", "") {
			continue
		}
		e := dimensionEntry(p, tags, "countries")
		e.Flag = strPtr(p.Config.String("flag"))
		out = append(out, e)
	}
	return out
}

// BuildLanguagesIndex lists language pages with a display code from codes,
// falling back to the first two letters of the slug.
func BuildLanguagesIndex(pages []*content.Page, tags TagIndex, codes map[string]string) []DimensionEntry {
	out := []DimensionEntry{}
	for _, p := range pages {
		if !selects(p, "language", "") {
			continue
		}
		e := dimensionEntry(p, tags, "languages")
		e.Flag = strPtr(p.Config.String("flag"))
		e.Code = codes[p.Slug()]
		if e.Code == "" {
			e.Code = strings.ToUpper(prefix(p.Slug(), 2))
		}
		out = append(out, e)
	}
	return out
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

package related

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AllSections is every section a related-entities block can show, in
// display order.
var AllSections = []string{
	"services", "specialists", "cases", "solutions", "categories",
	"industries", "countries", "languages", "blog-posts",
}

// ownSection is the section an entity type never lists on its own page.
var ownSection = map[string]string{
	"service":    "services",
	"specialist": "specialists",
	"case":       "cases",
	"solution":   "solutions",
	"category":   "categories",
	"industry":   "industries",
	"country":    "countries",
	"language":   "languages",
	"blog-post":  "blog-posts",
}

// SectionOrder returns the sections shown for entityType, or nil for types
// without related sections.
func SectionOrder(entityType string) []string {
	own, ok := ownSection[entityType]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(AllSections)-1)
	for _, s := range AllSections {
		if s != own {
			out = append(out, s)
		}
	}
	return out
}

var sectionTitles = map[string]string{
	"services":    "Services",
	"specialists": "Specialists",
	"cases":       "Case Studies",
	"solutions":   "Solutions",
	"categories":  "Categories",
	"industries":  "Industries",
	"countries":   "Countries",
	"languages":   "Languages",
	"blog-posts":  "Blog Posts",
}

// {name} is replaced with the page's menu label or title.
var sectionSubtitles = map[string]map[string]string{
	"service": {
		"specialists": "Experts delivering {name}",
		"cases":       "{name} success stories",
		"solutions":   "Tailored {name} solutions",
		"categories":  "Categories related to {name}",
		"industries":  "Industries benefiting from {name}",
		"countries":   "{name} available in these countries",
		"languages":   "{name} available in these languages",
		"blog-posts":  "Articles about {name}",
	},
	"specialist": {
		"services":   "Services by {name}",
		"cases":      "Results achieved by {name}",
		"solutions":  "Solutions by {name}",
		"categories": "{name}'s areas of expertise",
		"industries": "Industries {name} serves",
		"countries":  "Countries {name} works in",
		"languages":  "Languages {name} speaks",
		"blog-posts": "Articles by {name}",
	},
	"case": {
		"services":    "Services used in this project",
		"specialists": "Specialists behind this project",
		"solutions":   "Related solutions",
		"categories":  "Disciplines applied in this project",
		"industries":  "Industry context for this case",
		"countries":   "Geographic scope of this project",
		"languages":   "Languages involved in this project",
		"blog-posts":  "Related articles",
	},
	"solution": {
		"services":    "Core services behind {name}",
		"specialists": "Experts delivering {name}",
		"cases":       "Success stories with {name}",
		"categories":  "Categories within {name}",
		"industries":  "Industries targeted by {name}",
		"countries":   "{name} available in these countries",
		"languages":   "{name} available in these languages",
		"blog-posts":  "Articles about {name}",
	},
	"category": {
		"services":    "{name} services we offer",
		"specialists": "Our {name} specialists",
		"cases":       "{name} case studies",
		"solutions":   "Pre-built {name} solutions",
		"industries":  "Industries we serve with {name}",
		"countries":   "Countries where we offer {name}",
		"languages":   "Languages for {name} delivery",
		"blog-posts":  "{name} articles",
	},
	"industry": {
		"services":    "Services tailored for {name}",
		"specialists": "Specialists with {name} expertise",
		"cases":       "{name} success stories",
		"solutions":   "Solutions built for {name}",
		"categories":  "Disciplines we apply in {name}",
		"countries":   "Countries we serve in {name}",
		"languages":   "Languages supported for {name}",
		"blog-posts":  "Articles about {name}",
	},
	"country": {
		"services":    "Services available in {name}",
		"specialists": "Specialists operating in {name}",
		"cases":       "Case studies from {name}",
		"solutions":   "Solutions available in {name}",
		"categories":  "Service categories in {name}",
		"industries":  "Industries we serve in {name}",
		"languages":   "Languages we support in {name}",
		"blog-posts":  "Articles about {name}",
	},
	"language": {
		"services":    "Services available in {name}",
		"specialists": "{name}-speaking specialists",
		"cases":       "Case studies in {name}",
		"solutions":   "Solutions available in {name}",
		"categories":  "Service categories in {name}",
		"industries":  "Industries we serve in {name}",
		"countries":   "Countries for {name} services",
		"blog-posts":  "Articles in {name}",
	},
	"blog-post": {
		"services":    "Related services",
		"specialists": "Written by",
		"cases":       "Related case studies",
		"solutions":   "Related solutions",
		"categories":  "Topics covered",
		"industries":  "Industry focus",
		"countries":   "Geographic focus",
		"languages":   "Available in",
	},
}

// FilterMeta labels one filter dimension.
type FilterMeta struct {
	Label    string
	AllLabel string
}

var filterMeta = map[string]FilterMeta{
	"services":    {Label: "Service", AllLabel: "All Services"},
	"specialists": {Label: "Specialist", AllLabel: "All Specialists"},
	"cases":       {Label: "Case Study", AllLabel: "All Cases"},
	"solutions":   {Label: "Solution", AllLabel: "All Solutions"},
	"categories":  {Label: "Category", AllLabel: "All Categories"},
	"industries":  {Label: "Industry", AllLabel: "All Industries"},
	"countries":   {Label: "Country", AllLabel: "All Countries"},
	"languages":   {Label: "Language", AllLabel: "All Languages"},
}

// MetaFor returns the filter labels for dimension, title-casing unknown ones.
func MetaFor(dimension string) FilterMeta {
	if m, ok := filterMeta[dimension]; ok {
		return m
	}
	return FilterMeta{Label: titleCase(dimension), AllLabel: "All"}
}

// titleCase capitalizes every run of letters, so "case_studies" becomes
// "Case_Studies". Casers are stateful, so each call gets its own.
func titleCase(s string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}
	return b.String()
}

// SectionTitle picks the heading for a section on a page of entityType.
func SectionTitle(entityType, section, pageName string) string {
	if tmpl := sectionSubtitles[entityType][section]; tmpl != "" && pageName != "" {
		return strings.ReplaceAll(tmpl, "{name}", pageName)
	}
	if t, ok := sectionTitles[section]; ok {
		return t
	}
	return titleCase(section)
}

// Package tasks loads reusable task definitions from the _tasks directory and
// resolves task-picker blocks against them.
package tasks

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/util/fallback"
)

// PickerBlock is the block type resolved against loaded tasks.
const PickerBlock = "task-picker"

const defaultDeliveryType = "one-time"

// Tier is one price level of a task.
type Tier struct {
	Name  string
	Label string
	Price any
}

// Task is a purchasable unit of work offered by task pickers.
type Task struct {
	Slug         string
	Title        string
	Description  string
	DeliveryType string
	OneTime      any
	Monthly      any
	Yearly       any
	UnitType     string
	DoorOpener   any
	Deliverables []string
	Tiers        []Tier
}

// Map is the block-data form of a task.
func (t Task) Map() map[string]any {
	tiers := make([]any, len(t.Tiers))
	for i, tier := range t.Tiers {
		tiers[i] = map[string]any{"name": tier.Name, "label": tier.Label, "price": tier.Price}
	}
	deliverables := make([]any, len(t.Deliverables))
	for i, d := range t.Deliverables {
		deliverables[i] = d
	}
	return map[string]any{
		"slug":          t.Slug,
		"title":         t.Title,
		"description":   t.Description,
		"delivery_type": t.DeliveryType,
		"one_time":      t.OneTime,
		"monthly":       t.Monthly,
		"yearly":        t.Yearly,
		"unit_type":     t.UnitType,
		"door_opener":   t.DoorOpener,
		"deliverables":  deliverables,
		"tiers":         tiers,
	}
}

// Set holds loaded tasks by slug.
type Set map[string]Task

// Load reads one file per task directory under dir: the first file, in name
// order, that carries lang and is TOML or Markdown. A missing dir yields an
// empty set.
func Load(dir, lang string, loader *content.Loader) (Set, error) {
	set := Set{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, err
	}
	marker := "." + lang + "."
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name())
		}
		slices.Sort(names)
		for _, name := range names {
			if !strings.Contains(name, marker) || !(strings.HasSuffix(name, ".toml") || strings.HasSuffix(name, ".md")) {
				continue
			}
			page, err := loader.LoadFile(filepath.Join(dir, e.Name(), name))
			if err != nil {
				return nil, err
			}
			task := fromPage(page, e.Name())
			set[task.Slug] = task
			break
		}
	}
	return set, nil
}

func fromPage(p *content.Page, dirName string) Task {
	extra := p.Config.Extra
	t := Task{
		Slug:         fallback.First(p.Config.Slug, dirName),
		Title:        shortTitle(p.Meta.Title),
		Description:  p.Meta.Description,
		DeliveryType: fallback.First(content.AsString(extra["delivery_type"]), defaultDeliveryType),
		OneTime:      extra["one_time"],
		Monthly:      extra["monthly"],
		Yearly:       extra["yearly"],
		UnitType:     content.AsString(p.Sidebar["unit_type"]),
		DoorOpener:   false,
		Deliverables: []string{},
		Tiers:        []Tier{},
	}
	if v, ok := extra["door_opener"]; ok {
		t.DoorOpener = v
	}
	for _, b := range p.Blocks {
		if b.Type != "features" {
			continue
		}
		data, _ := b.DataMap()
		for _, f := range content.AsList(data["features"]) {
			t.Deliverables = append(t.Deliverables, content.AsString(content.AsMap(f)["title"]))
		}
	}
	for _, raw := range content.AsList(p.Sidebar["tiers"]) {
		tier := content.AsMap(raw)
		price := tier["price"]
		if price == nil {
			price = 0
		}
		t.Tiers = append(t.Tiers, Tier{
			Name:  content.AsString(tier["name"]),
			Label: content.AsString(tier["label"]),
			Price: price,
		})
	}
	return t
}

// shortTitle drops an em- or en-dash suffix ("Site audit — 10 days").
func shortTitle(title string) string {
	title, _, _ = strings.Cut(title, "—")
	title, _, _ = strings.Cut(title, "–")
	return strings.TrimSpace(title)
}

// ResolvePickers fills task-picker blocks: auto_tasks populates an empty
// task list, slug strings are replaced by the loaded task and inline tables
// without tiers are merged over the loaded task. Returns the number of
// blocks touched.
func ResolvePickers(pages []*content.Page, set Set) int {
	touched := 0
	for _, p := range pages {
		for i := range p.Blocks {
			b := &p.Blocks[i]
			if b.Type != PickerBlock {
				continue
			}
			data, ok := b.DataMap()
			if !ok {
				continue
			}
			if auto := content.ToSlugList(data["auto_tasks"]); len(auto) > 0 && !content.Truthy(data["tasks"]) {
				var filled []any
				for _, slug := range auto {
					if t, ok := set[slug]; ok {
						filled = append(filled, t.Map())
					}
				}
				data["tasks"] = orEmpty(filled)
			}
			current := content.AsList(data["tasks"])
			if len(current) == 0 {
				continue
			}
			enriched := make([]any, 0, len(current))
			for _, item := range current {
				switch v := item.(type) {
				case string:
					if t, ok := set[v]; ok {
						enriched = append(enriched, t.Map())
					}
				case map[string]any:
					enriched = append(enriched, merge(v, set))
				default:
					enriched = append(enriched, item)
				}
			}
			data["tasks"] = enriched
			touched++
		}
	}
	return touched
}

func merge(inline map[string]any, set Set) map[string]any {
	base, ok := set[content.AsString(inline["slug"])]
	if !ok || content.Truthy(inline["tiers"]) {
		return inline
	}
	out := base.Map()
	for k, v := range inline {
		if v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func orEmpty(l []any) []any {
	if l == nil {
		return []any{}
	}
	return l
}

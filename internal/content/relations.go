package content

import (
	"fmt"
	"strconv"
	"time"
)

// SlugList is a relationship or tag value. Content may declare a single slug
// or a list; both decode to a SlugList.
type SlugList []string

// ToSlugList normalizes a decoded value. Non-string items and empty strings
// are dropped.
func ToSlugList(v any) SlugList {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return SlugList{t}
	case []string:
		out := make(SlugList, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make(SlugList, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Relation is one declared key with its targets.
type Relation struct {
	Key     string
	Targets SlugList
}

// Relations keeps keys in declaration order.
type Relations []Relation

// Get returns the targets declared under key.
func (r Relations) Get(key string) SlugList {
	for _, rel := range r {
		if rel.Key == key {
			return rel.Targets
		}
	}
	return nil
}

// Has reports whether key is declared.
func (r Relations) Has(key string) bool {
	for _, rel := range r {
		if rel.Key == key {
			return true
		}
	}
	return false
}

// Set replaces the targets of key, appending a new key at the end.
func (r *Relations) Set(key string, targets SlugList) {
	for i := range *r {
		if (*r)[i].Key == key {
			(*r)[i].Targets = targets
			return
		}
	}
	*r = append(*r, Relation{Key: key, Targets: targets})
}

// Map renders the relations for templates.
func (r Relations) Map() map[string]any {
	out := make(map[string]any, len(r))
	for _, rel := range r {
		out[rel.Key] = []string(rel.Targets)
	}
	return out
}

func newRelations(raw map[string]any, order []string) Relations {
	out := make(Relations, 0, len(raw))
	for _, k := range orderedKeys(raw, order) {
		out = append(out, Relation{Key: k, Targets: ToSlugList(raw[k])})
	}
	return out
}

// Link points a page at its parent entities under one key.
type Link struct {
	Key     string
	Targets SlugList
}

// Links keeps keys in declaration order.
type Links []Link

// Get returns the first slug linked under key.
func (l Links) Get(key string) string {
	for _, link := range l {
		if link.Key == key && len(link.Targets) > 0 {
			return link.Targets[0]
		}
	}
	return ""
}

// Map renders the links for templates and exports. A single target stays a
// plain string.
func (l Links) Map() map[string]any {
	out := make(map[string]any, len(l))
	for _, link := range l {
		if len(link.Targets) == 1 {
			out[link.Key] = link.Targets[0]
			continue
		}
		out[link.Key] = []string(link.Targets)
	}
	return out
}

func newLinks(raw map[string]any, order []string) Links {
	out := make(Links, 0, len(raw))
	for _, k := range orderedKeys(raw, order) {
		if targets := ToSlugList(raw[k]); len(targets) > 0 {
			out = append(out, Link{Key: k, Targets: targets})
		}
	}
	return out
}

// asString renders scalars the way they read in content files.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// AsString is exported for collaborators reading free-form maps.
func AsString(v any) string { return asString(v) }

// AsMap returns v as a table, or nil.
func AsMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// AsList returns v as a list, or nil.
func AsList(v any) []any {
	l, _ := v.([]any)
	return l
}

// AsFloat converts decoded numbers. ok is false for non-numeric values.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// Truthy mirrors how content authors use empty values: nil, "", 0, false and
// empty collections are all "not set".
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	if f, ok := AsFloat(v); ok {
		return f != 0
	}
	return true
}

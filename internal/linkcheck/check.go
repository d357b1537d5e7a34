package linkcheck

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Broken is an internal link with no matching output file.
type Broken struct {
	Page string `json:"page"`
	URL  string `json:"url"`
	Tag  string `json:"tag"`
}

func (b Broken) String() string {
	return fmt.Sprintf("%s: broken link %s (<%s>)", b.Page, b.URL, b.Tag)
}

// Report summarizes one check run.
type Report struct {
	Pages   int      `json:"pages"`
	Checked int      `json:"checked"`
	Broken  []Broken `json:"broken,omitempty"`
}

// Checker resolves links against the site root directory.
type Checker struct {
	root string
	seen map[string]bool
}

// NewChecker resolves absolute links ("/services/seo") under root.
func NewChecker(root string) *Checker {
	return &Checker{root: root, seen: make(map[string]bool)}
}

// Check extracts and resolves the links of every page file.
func (c *Checker) Check(ctx context.Context, pages []string) (Report, error) {
	var rep Report
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		links, err := ExtractLinks(p)
		if err != nil {
			return rep, err
		}
		rep.Pages++
		for _, l := range links {
			if !ShouldCheck(l.URL) {
				continue
			}
			rep.Checked++
			if !c.Resolves(p, l.URL) {
				rep.Broken = append(rep.Broken, Broken{Page: c.rel(p), URL: l.URL, Tag: l.Tag})
			}
		}
	}
	return rep, nil
}

// Resolves reports whether link, found in the page file at from, names an
// existing output file: <path>/index.html, the exact file, or <path>.html.
func (c *Checker) Resolves(from, link string) bool {
	target := stripSuffixes(link)
	if target == "" {
		return true
	}

	var base string
	if strings.HasPrefix(target, "/") {
		base = filepath.Join(c.root, filepath.FromSlash(path.Clean(target)))
	} else {
		base = filepath.Join(filepath.Dir(from), filepath.FromSlash(target))
	}

	candidates := []string{filepath.Join(base, "index.html")}
	if !strings.HasSuffix(target, "/") {
		candidates = append(candidates, base, base+".html")
	}
	for _, cand := range candidates {
		if c.exists(cand) {
			return true
		}
	}
	return false
}

func (c *Checker) exists(p string) bool {
	if ok, cached := c.seen[p]; cached {
		return ok
	}
	info, err := os.Stat(p)
	ok := err == nil && !info.IsDir()
	c.seen[p] = ok
	return ok
}

func (c *Checker) rel(p string) string {
	if r, err := filepath.Rel(c.root, p); err == nil {
		return filepath.ToSlash(r)
	}
	return p
}

func stripSuffixes(u string) string {
	if i := strings.IndexAny(u, "#?"); i >= 0 {
		u = u[:i]
	}
	return u
}

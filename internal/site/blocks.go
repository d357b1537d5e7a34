package site

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/util/sets"
)

// AvailableBlocks returns the block template names (<dir>/*.html without the
// extension). A missing directory yields an empty set.
func AvailableBlocks(dir string) sets.Set[string] {
	out := sets.New[string]()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".html") {
			out.Add(strings.TrimSuffix(e.Name(), ".html"))
		}
	}
	return out
}

// DemoBlocks returns the block directories under dir that hold a file for
// lang, with dashes normalized to underscores.
func DemoBlocks(dir, lang string) sets.Set[string] {
	out := sets.New[string]()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	marker := "." + lang + "."
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if strings.Contains(f.Name(), marker) {
				out.Add(strings.ReplaceAll(e.Name(), "-", "_"))
				break
			}
		}
	}
	return out
}

// ValidateBlocks warns about block templates with no demo content.
func ValidateBlocks(available, demos sets.Set[string]) []string {
	var warnings []string
	for _, block := range sortedSet(available) {
		if demos.Has(strings.ReplaceAll(block, "-", "_")) || demos.Has(block) {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("Template '%s' has no demo content in content/blocks/", block))
	}
	return warnings
}

// PageBlocks returns the template names a page's blocks resolve to.
func PageBlocks(p *content.Page) sets.Set[string] {
	out := sets.New[string]()
	for _, b := range p.Blocks {
		if b.Type != "" {
			out.Add(strings.ReplaceAll(b.Type, "_", "-"))
		}
	}
	return out
}

// ValidatePageBlocks reports every block of p that has no template in blocksDir.
func ValidatePageBlocks(p *content.Page, available sets.Set[string], blocksDir string) []string {
	var errs []string
	for _, block := range sortedSet(PageBlocks(p)) {
		if !available.Has(block) {
			errs = append(errs, fmt.Sprintf("%s: Block '%s' has no template in %s/", p.Path, block, blocksDir))
		}
	}
	return errs
}

func sortedSet(s sets.Set[string]) []string {
	out := s.Slice()
	slices.Sort(out)
	return out
}

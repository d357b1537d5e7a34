// Package render executes html/template layouts and block templates for
// pages and writes the result under the language output directory.
//
// Templates are looked up across an ordered list of directories (theme first,
// core templates as fallback). Every page and block template is parsed
// together with the partials/*.html found in those directories, so templates
// can include {{template "partials/header.html" .}}.
package render

import (
	stdErrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vividigit/sitebuilder/internal/config"
	"github.com/vividigit/sitebuilder/internal/content"
	"github.com/vividigit/sitebuilder/internal/export"
	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/logfields"
	"github.com/vividigit/sitebuilder/internal/site"
)

// DefaultLayout is used when a page sets no config.layout.
const DefaultLayout = "base.html"

// ErrTemplateNotFound is returned when no template directory holds a name.
var ErrTemplateNotFound = stdErrors.New("template not found")

// Options configures a Renderer.
type Options struct {
	TemplateDirs []string
	IconsDir     string
	OutputDir    string
	Global       config.Global
	Strict       bool
	Logger       *slog.Logger
}

// Renderer renders pages of one language build. It is not safe for
// concurrent use.
type Renderer struct {
	opts     Options
	icons    *Icons
	funcs    template.FuncMap
	partials map[string]string
	cache    map[string]*template.Template
}

// Result describes one rendered page.
type Result struct {
	Path     string
	Warnings []string
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	icons := NewIcons(opts.IconsDir)
	return &Renderer{
		opts:  opts,
		icons: icons,
		funcs: template.FuncMap{
			"icon": icons.Func,
			"safe": func(s string) template.HTML { return template.HTML(s) }, // #nosec G203 -- content is authored markdown
		},
		cache: make(map[string]*template.Template),
	}
}

// OutputPath maps a page URL to <dir>/<url>/index.html.
func OutputPath(dir, url string) string {
	clean := strings.Trim(url, "/")
	if clean == "" {
		return filepath.Join(dir, "index.html")
	}
	return filepath.Join(dir, filepath.FromSlash(clean), "index.html")
}

// RenderPage renders p with its blocks into its layout and writes the file.
// Missing templates are fatal in strict mode; otherwise they are reported as
// warnings and replaced by an HTML comment (blocks) or skip the page (layout).
func (r *Renderer) RenderPage(p *content.Page, sitemap []site.Entry, nav []site.NavItem) (Result, error) {
	var res Result
	siteSection := r.opts.Global.Section("site")

	blocks := make([]template.HTML, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		html, warn, err := r.renderBlock(b, siteSection)
		if err != nil {
			return res, err
		}
		if warn != "" {
			res.Warnings = append(res.Warnings, warn)
			r.opts.Logger.Warn(warn, logfields.URL(p.URL), logfields.Block(b.Type))
		}
		blocks = append(blocks, html)
	}

	layoutName := "layouts/" + fallbackLayout(p.Config.Layout)
	layout, err := r.lookup(layoutName)
	if err != nil {
		msg := "Missing layout: " + layoutName
		if r.opts.Strict || !stdErrors.Is(err, ErrTemplateNotFound) {
			return res, r.renderError(msg, p, err)
		}
		res.Warnings = append(res.Warnings, msg)
		r.opts.Logger.Warn(msg, logfields.URL(p.URL))
		return res, nil
	}

	ctx := map[string]any{
		"site":          siteSection,
		"analytics":     r.opts.Global.Section("analytics"),
		"config":        p.Config.Map(),
		"meta":          p.Meta.Map(),
		"translations":  nonNil(p.Translations),
		"sidebar":       nonNil(p.Sidebar),
		"relationships": p.Relationships.Map(),
		"blocks":        blocks,
		"sitemap":       sitemap,
		"navigation":    nav,
	}
	var sb strings.Builder
	if err := layout.Execute(&sb, ctx); err != nil {
		return res, r.renderError("execute layout "+layoutName, p, err)
	}

	res.Path = OutputPath(r.opts.OutputDir, p.URL)
	if err := export.WriteFile(res.Path, []byte(sb.String())); err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "write page").
			WithContext("url", p.URL).
			WithContext("path", res.Path).
			Build()
	}
	return res, nil
}

func (r *Renderer) renderBlock(b content.Block, siteSection map[string]any) (template.HTML, string, error) {
	key := fallbackKey(b)
	names := []string{"blocks/" + key + ".html"}
	if key != b.Type {
		names = append(names, "blocks/"+b.Type+".html")
	}

	var tmpl *template.Template
	for _, name := range names {
		t, err := r.lookup(name)
		if err == nil {
			tmpl = t
			break
		}
		if !stdErrors.Is(err, ErrTemplateNotFound) {
			return "", "", errors.WrapError(err, errors.CategoryRender, "parse block template").
				WithContext("template", name).
				Build()
		}
	}
	if tmpl == nil {
		msg := fmt.Sprintf("Missing template: [%s]", strings.Join(names, ", "))
		if r.opts.Strict {
			return "", "", errors.RenderError(msg).Fatal().WithContext("block", b.Type).Build()
		}
		return comment(msg), msg, nil
	}

	var sb strings.Builder
	err := tmpl.Execute(&sb, map[string]any{
		"data":       b.Data,
		"block_type": b.Type,
		"site":       siteSection,
	})
	if err != nil {
		msg := fmt.Sprintf("Error rendering block '%s': %v", b.Type, err)
		if r.opts.Strict {
			return "", "", errors.WrapError(err, errors.CategoryRender, "render block").Fatal().WithContext("block", b.Type).Build()
		}
		return comment(msg), msg, nil
	}
	return template.HTML(sb.String()), "", nil // #nosec G203 -- output of html/template
}

// lookup parses name from the first template directory that has it.
func (r *Renderer) lookup(name string) (*template.Template, error) {
	if t, ok := r.cache[name]; ok {
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return t, nil
	}
	src, err := r.find(name)
	if err != nil {
		if stdErrors.Is(err, ErrTemplateNotFound) {
			r.cache[name] = nil
		}
		return nil, err
	}
	t, err := template.New(name).Funcs(r.funcs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	partials, err := r.loadPartials()
	if err != nil {
		return nil, err
	}
	for _, pname := range sortedKeys(partials) {
		if pname == name {
			continue
		}
		if _, err := t.New(pname).Parse(partials[pname]); err != nil {
			return nil, fmt.Errorf("parse %s: %w", pname, err)
		}
	}
	r.cache[name] = t
	return t, nil
}

func (r *Renderer) find(name string) (string, error) {
	for _, dir := range r.opts.TemplateDirs {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err == nil {
			return string(data), nil
		}
		if !stdErrors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// loadPartials collects partials/*.html; earlier directories win.
func (r *Renderer) loadPartials() (map[string]string, error) {
	if r.partials != nil {
		return r.partials, nil
	}
	out := make(map[string]string)
	for _, dir := range r.opts.TemplateDirs {
		files, err := filepath.Glob(filepath.Join(dir, "partials", "*.html"))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			name := path.Join("partials", filepath.Base(f))
			if _, ok := out[name]; ok {
				continue
			}
			data, err := os.ReadFile(filepath.Clean(f))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
			out[name] = string(data)
		}
	}
	r.partials = out
	return out, nil
}

func (r *Renderer) renderError(msg string, p *content.Page, err error) error {
	return errors.WrapError(err, errors.CategoryRender, msg).
		Fatal().
		WithContext("url", p.URL).
		WithContext("path", p.Path).
		Build()
}

func fallbackLayout(layout string) string {
	if layout == "" {
		return DefaultLayout
	}
	return layout
}

func fallbackKey(b content.Block) string {
	if b.OriginalKey == "" {
		return b.Type
	}
	return b.OriginalKey
}

func comment(msg string) template.HTML {
	return template.HTML("<!-- " + strings.ReplaceAll(msg, "--", "- -") + " -->") // #nosec G203 -- sanitized comment
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

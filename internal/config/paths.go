package config

import "path/filepath"

// Paths holds every directory a site build reads from or writes to.
type Paths struct {
	Root          string
	Site          string
	Content       string
	Global        string
	Tasks         string
	BlocksContent string
	Templates     string
	CoreTemplates string
	Blocks        string
	Assets        string
	Icons         string
	Output        string
}

// ResolvePaths lays out the project directories for a site:
//
//	<root>/sites/<site>/content           content tree
//	<root>/themes/<theme>/templates        layouts, blocks, partials
//	<root>/themes/<theme>/assets           static assets and icons
//	<root>/core/templates                  fallback templates
//	<root>/<site.output>                   build output
func ResolvePaths(root, site string, cfg *Config) Paths {
	content := filepath.Join(root, "sites", site, "content")
	theme := filepath.Join(root, "themes", cfg.Site.Theme)
	templates := filepath.Join(theme, "templates")
	assets := filepath.Join(theme, "assets")
	output := cfg.Site.Output
	if !filepath.IsAbs(output) {
		output = filepath.Join(root, output)
	}
	return Paths{
		Root:          root,
		Site:          site,
		Content:       content,
		Global:        filepath.Join(content, "_global"),
		Tasks:         filepath.Join(content, "_tasks"),
		BlocksContent: filepath.Join(content, "blocks"),
		Templates:     templates,
		CoreTemplates: filepath.Join(root, "core", "templates"),
		Blocks:        filepath.Join(templates, "blocks"),
		Assets:        assets,
		Icons:         filepath.Join(assets, "icons"),
		Output:        output,
	}
}

// LanguageOutput returns the output directory for lang.
func (p Paths) LanguageOutput(lang, defaultLang string) string {
	if lang == defaultLang {
		return p.Output
	}
	return filepath.Join(p.Output, lang)
}

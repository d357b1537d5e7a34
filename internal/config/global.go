package config

import (
	stdErrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

const defaultDomain = "https://example.com"

// Global is the free-form content of _global/site.toml handed to templates.
type Global map[string]any

// LoadGlobal reads <content>/_global/site.toml. A missing file yields an empty Global.
func LoadGlobal(dir string) (Global, error) {
	path := filepath.Join(dir, "site.toml")
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return Global{}, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read global site settings").Fatal().WithContext("path", path).Build()
	}
	g := Global{}
	if err := toml.Unmarshal(data, &g); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "decode global site settings").Fatal().WithContext("path", path).Build()
	}
	return g, nil
}

// Section returns a nested table, or an empty map.
func (g Global) Section(name string) map[string]any {
	if m, ok := g[name].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Domain is site.domain, used for absolute sitemap URLs.
func (g Global) Domain() string {
	if d, ok := g.Section("site")["domain"].(string); ok && d != "" {
		return d
	}
	return defaultDomain
}

// BaseURL is site.base_url, defaulting to "/".
func (g Global) BaseURL() string {
	if u, ok := g.Section("site")["base_url"].(string); ok && u != "" {
		return u
	}
	return "/"
}

// WithSite returns a copy of g whose site table is filled from cfg: theme and
// language only when absent, base_url forced to "/" for local builds.
func (g Global) WithSite(cfg *Config, local bool) Global {
	out := make(Global, len(g)+1)
	for k, v := range g {
		out[k] = v
	}
	site := make(map[string]any)
	for k, v := range g.Section("site") {
		site[k] = v
	}
	if _, ok := site["theme"]; !ok {
		site["theme"] = cfg.Site.Theme
	}
	if _, ok := site["language"]; !ok {
		site["language"] = cfg.Site.Language
	}
	if local {
		site["base_url"] = "/"
	}
	out["site"] = site
	return out
}

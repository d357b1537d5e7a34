package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

const globalTemplate = `[site]
name = "My Site"
domain = "https://example.com"
base_url = "/"
`

// Init scaffolds sites/<site>/site.yml and the _global settings file.
func Init(root, site, theme string, force bool) (string, error) {
	path := SiteFile(root, site)
	if _, err := os.Stat(path); err == nil && !force {
		return path, errors.ConfigError("site configuration already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}

	cfg := Config{Site: SiteConfig{Theme: theme, Language: DefaultLanguage}}
	applyDefaults(&cfg)

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return path, errors.WrapError(err, errors.CategoryInternal, "marshal site configuration").Build()
	}

	globalDir := filepath.Join(root, "sites", site, "content", "_global")
	for _, dir := range []string{filepath.Dir(path), globalDir, filepath.Join(root, "themes", theme, "templates", "layouts")} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return path, errors.WrapError(err, errors.CategoryFileSystem, "create site directory").WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return path, errors.WrapError(err, errors.CategoryFileSystem, "write site configuration").WithContext("path", path).Build()
	}
	globalPath := filepath.Join(globalDir, "site.toml")
	if _, err := os.Stat(globalPath); err != nil {
		if err := os.WriteFile(globalPath, []byte(globalTemplate), 0o600); err != nil {
			return path, errors.WrapError(err, errors.CategoryFileSystem, "write global settings").WithContext("path", globalPath).Build()
		}
	}
	return path, nil
}

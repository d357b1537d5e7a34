package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  theme: vividigit\n"))
	require.NoError(t, err)

	require.Equal(t, "vividigit", cfg.Site.Theme)
	require.Equal(t, DefaultLanguage, cfg.Site.Language)
	require.Equal(t, "public", cfg.Site.Output)
	require.Equal(t, DefaultNavigationOrder, cfg.Navigation.Order)
	require.Equal(t, DefaultFacetDimensions, cfg.Facets.Dimensions)
	require.Equal(t, "EN", cfg.Exports.LanguageCodeMap["english"])
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	require.False(t, cfg.Notify.Enabled())
}

func TestParseKeepsExplicitValues(t *testing.T) {
	src := `
site:
  theme: vividigit
  language: DE
navigation:
  order: ["/", "services", "contact"]
facets:
  dimensions: [categories]
exports:
  language_code_map:
    english: GB
build:
  strict: true
  parallel_languages: 4
  sqlite_export: true
logging:
  level: WARNING
  format: json
notify:
  nats_url: nats://localhost:4222
  timeout: 2s
watch:
  debounce: 1s
  interval: 10m
`
	cfg, err := Parse([]byte(src))
	require.NoError(t, err)

	require.Equal(t, "de", cfg.Site.Language)
	require.Equal(t, []string{"/", "services", "contact"}, cfg.Navigation.Order)
	require.Equal(t, []string{"categories"}, cfg.Facets.Dimensions)
	require.Equal(t, map[string]string{"english": "GB"}, cfg.Exports.LanguageCodeMap)
	require.True(t, cfg.Build.Strict)
	require.Equal(t, 4, cfg.Build.ParallelLanguages)
	require.Equal(t, LogLevelWarn, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.True(t, cfg.Notify.Enabled())
	require.Equal(t, 2*time.Second, cfg.Notify.Timeout)
	require.Equal(t, time.Second, cfg.Watch.Debounce)
	require.Equal(t, 10*time.Minute, cfg.Watch.Interval)
}

func TestParseExpandsEnvironment(t *testing.T) {
	t.Setenv("SB_THEME", "midnight")
	cfg, err := Parse([]byte("site:\n  theme: ${SB_THEME}\n"))
	require.NoError(t, err)
	require.Equal(t, "midnight", cfg.Site.Theme)
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"missing theme", "site:\n  language: en\n", "site.theme"},
		{"bad nats url", "site:\n  theme: x\nnotify:\n  nats_url: not a url\n", "notify.nats_url"},
		{"too many parallel languages", "site:\n  theme: x\nbuild:\n  parallel_languages: 99\n", "build.parallel_languages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryValidation))
			ce, _ := errors.AsClassified(err)
			field, _ := ce.Context().GetString("field")
			require.Equal(t, tt.field, field)
		})
	}
}

func TestNormalizeWarnsOnUnknownEnums(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "loud", Format: "xml"}, Build: BuildConfig{ParallelLanguages: -2}}
	res, err := Normalize(cfg)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 3)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
	require.Zero(t, cfg.Build.ParallelLanguages)
}

func TestLoadFromProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sites", "demo"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("SB_TEST_THEME=fromenv\n"), 0o600))
	require.NoError(t, os.WriteFile(SiteFile(root, "demo"), []byte("site:\n  theme: ${SB_TEST_THEME}\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SB_TEST_THEME") })

	cfg, err := Load(root, "demo")
	require.NoError(t, err)
	require.Equal(t, "fromenv", cfg.Site.Theme)

	_, err = Load(root, "missing")
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestResolvePaths(t *testing.T) {
	cfg := &Config{Site: SiteConfig{Theme: "vividigit", Output: "public"}}
	p := ResolvePaths("/proj", "demo", cfg)

	require.Equal(t, filepath.Join("/proj", "sites", "demo", "content"), p.Content)
	require.Equal(t, filepath.Join("/proj", "sites", "demo", "content", "_global"), p.Global)
	require.Equal(t, filepath.Join("/proj", "sites", "demo", "content", "_tasks"), p.Tasks)
	require.Equal(t, filepath.Join("/proj", "themes", "vividigit", "templates", "blocks"), p.Blocks)
	require.Equal(t, filepath.Join("/proj", "themes", "vividigit", "assets", "icons"), p.Icons)
	require.Equal(t, filepath.Join("/proj", "public"), p.LanguageOutput("en", "en"))
	require.Equal(t, filepath.Join("/proj", "public", "de"), p.LanguageOutput("de", "en"))
}

func TestGlobalSettings(t *testing.T) {
	dir := t.TempDir()
	g, err := LoadGlobal(dir)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", g.Domain())
	require.Equal(t, "/", g.BaseURL())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.toml"), []byte("[site]\ndomain = \"https://vividigit.com\"\nbase_url = \"https://vividigit.com/\"\ntheme = \"custom\"\n"), 0o600))
	g, err = LoadGlobal(dir)
	require.NoError(t, err)
	require.Equal(t, "https://vividigit.com", g.Domain())

	cfg := &Config{Site: SiteConfig{Theme: "vividigit", Language: "en"}}
	merged := g.WithSite(cfg, true)
	site := merged.Section("site")
	require.Equal(t, "custom", site["theme"])
	require.Equal(t, "en", site["language"])
	require.Equal(t, "/", merged.BaseURL())
	require.Equal(t, "https://vividigit.com/", g.BaseURL(), "source settings are not mutated")
}

func TestInitScaffoldsSite(t *testing.T) {
	root := t.TempDir()
	path, err := Init(root, "demo", "vividigit", false)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.FileExists(t, filepath.Join(root, "sites", "demo", "content", "_global", "site.toml"))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "vividigit", cfg.Site.Theme)

	_, err = Init(root, "demo", "vividigit", false)
	require.Error(t, err)
	_, err = Init(root, "demo", "other", true)
	require.NoError(t, err)
}

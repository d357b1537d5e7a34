package config

import (
	stdErrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

// DefaultLanguage is the language built into the output root; every other
// language goes to <output>/<lang>.
const DefaultLanguage = "en"

// Config is the per-site configuration read from sites/<name>/site.yml.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Navigation NavigationConfig `yaml:"navigation"`
	Facets     FacetsConfig     `yaml:"facets"`
	Exports    ExportsConfig    `yaml:"exports"`
	Build      BuildConfig      `yaml:"build"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Notify     NotifyConfig     `yaml:"notify"`
	Watch      WatchConfig      `yaml:"watch"`
}

// SiteConfig selects the theme and the default language.
type SiteConfig struct {
	Theme    string `yaml:"theme" validate:"required"`
	Language string `yaml:"language,omitempty"`
	Output   string `yaml:"output,omitempty"`
}

// NavigationConfig lists top-level URLs ("/contact") and collection names
// ("services") in menu order.
type NavigationConfig struct {
	Order []string `yaml:"order,omitempty" validate:"dive,required"`
}

// FacetsConfig names the tag dimensions indexed for services.
type FacetsConfig struct {
	Dimensions []string `yaml:"dimensions,omitempty" validate:"dive,required"`
}

// ExportsConfig tunes the JSON index exporter.
type ExportsConfig struct {
	LanguageCodeMap map[string]string `yaml:"language_code_map,omitempty"`
}

// BuildConfig holds pipeline switches.
type BuildConfig struct {
	Strict            bool `yaml:"strict"`
	ParallelLanguages int  `yaml:"parallel_languages" validate:"min=0,max=32"`
	SQLiteExport      bool `yaml:"sqlite_export"`
	LinkCheck         bool `yaml:"link_check"`
}

// LoggingConfig selects slog level and handler format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig enables the Prometheus textfile written after each build and,
// in watch mode, a /metrics listener.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
	Listen   string `yaml:"listen,omitempty"`
}

// NotifyConfig enables build-completed events on NATS.
type NotifyConfig struct {
	NATSURL string        `yaml:"nats_url,omitempty" validate:"omitempty,url"`
	Subject string        `yaml:"subject,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Enabled reports whether a NATS URL is configured.
func (n NotifyConfig) Enabled() bool { return n.NATSURL != "" }

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// SiteFile returns the site.yml location for a site under the project root.
func SiteFile(root, site string) string {
	return filepath.Join(root, "sites", site, "site.yml")
}

// Load reads sites/<site>/site.yml under root.
func Load(root, site string) (*Config, error) {
	if err := loadEnv(root); err != nil {
		return nil, err
	}
	return LoadFile(SiteFile(root, site))
}

// LoadFile reads, expands, normalizes and validates a site.yml file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("site configuration not found").WithContext("path", path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read site configuration").
			Fatal().WithContext("path", path).Build()
	}
	return Parse(data)
}

// Parse decodes site.yml content. ${VAR} references are expanded first.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "decode site configuration").Fatal().Build()
	}
	if _, err := Normalize(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnv(root string) error {
	envFile := filepath.Join(root, ".env")
	if _, err := os.Stat(envFile); err != nil {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "load .env").Fatal().WithContext("path", envFile).Build()
	}
	return nil
}

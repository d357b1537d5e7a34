package config

import "time"

// DefaultNavigationOrder is used when navigation.order is not configured.
var DefaultNavigationOrder = []string{
	"/", "services", "categories", "solutions", "cases",
	"team", "industries", "countries", "languages", "blog", "contact",
}

// DefaultFacetDimensions are the tag dimensions indexed for services.
var DefaultFacetDimensions = []string{"categories", "industries", "countries", "languages"}

// DefaultLanguageCodes maps language entity slugs to display codes.
var DefaultLanguageCodes = map[string]string{
	"english":    "EN",
	"german":     "DE",
	"french":     "FR",
	"spanish":    "ES",
	"russian":    "RU",
	"chinese":    "ZH",
	"japanese":   "JA",
	"italian":    "IT",
	"portuguese": "PT",
}

const (
	defaultOutputDir     = "public"
	defaultNotifySubject = "sitebuilder.builds"
	defaultNotifyTimeout = 5 * time.Second
	defaultDebounce      = 300 * time.Millisecond
)

func applyDefaults(c *Config) {
	if c.Site.Language == "" {
		c.Site.Language = DefaultLanguage
	}
	if c.Site.Output == "" {
		c.Site.Output = defaultOutputDir
	}
	if len(c.Navigation.Order) == 0 {
		c.Navigation.Order = append([]string(nil), DefaultNavigationOrder...)
	}
	if len(c.Facets.Dimensions) == 0 {
		c.Facets.Dimensions = append([]string(nil), DefaultFacetDimensions...)
	}
	if len(c.Exports.LanguageCodeMap) == 0 {
		c.Exports.LanguageCodeMap = make(map[string]string, len(DefaultLanguageCodes))
		for k, v := range DefaultLanguageCodes {
			c.Exports.LanguageCodeMap[k] = v
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = defaultNotifySubject
	}
	if c.Notify.Timeout <= 0 {
		c.Notify.Timeout = defaultNotifyTimeout
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = defaultDebounce
	}
}

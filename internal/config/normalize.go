package config

import (
	"fmt"
	"strings"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

// NormalizationResult captures adjustments made while normalizing.
type NormalizationResult struct{ Warnings []string }

// Normalize canonicalizes enumerated and bounded fields in place.
func Normalize(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, errors.InternalError("config nil").Build()
	}
	res := &NormalizationResult{}

	c.Site.Language = strings.ToLower(strings.TrimSpace(c.Site.Language))
	c.Site.Theme = strings.TrimSpace(c.Site.Theme)

	if raw := string(c.Logging.Level); strings.TrimSpace(raw) != "" {
		lvl, err := logLevelNormalizer.Lookup(raw)
		if err != nil {
			lvl = LogLevelInfo
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(lvl)))
		}
		c.Logging.Level = lvl
	}
	if raw := string(c.Logging.Format); strings.TrimSpace(raw) != "" {
		f, err := logFormatNormalizer.Lookup(raw)
		if err != nil {
			f = LogFormatText
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", raw, string(f)))
		}
		c.Logging.Format = f
	}
	if c.Build.ParallelLanguages < 0 {
		res.Warnings = append(res.Warnings, warnChanged("build.parallel_languages", c.Build.ParallelLanguages, 0))
		c.Build.ParallelLanguages = 0
	}
	return res, nil
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}

package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeySite       = "site"
	KeyLang       = "lang"
	KeySlug       = "slug"
	KeyCollection = "collection"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyBlock      = "block"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyBuildID    = "build_id"
	KeyOutcome    = "outcome"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Site(name string) slog.Attr       { return slog.String(KeySite, name) }
func Lang(code string) slog.Attr       { return slog.String(KeyLang, code) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Collection(c string) slog.Attr    { return slog.String(KeyCollection, c) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Block(name string) slog.Attr      { return slog.String(KeyBlock, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

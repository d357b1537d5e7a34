package content

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
	"github.com/vividigit/sitebuilder/internal/logfields"
)

// Loader reads discovered files into pages.
type Loader struct {
	parser *Parser
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger uses slog.Default.
func NewLoader(parser *Parser, logger *slog.Logger) *Loader {
	if parser == nil {
		parser = NewParser(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{parser: parser, logger: logger}
}

// LoadFile reads and parses a single file without location data.
func (l *Loader) LoadFile(path string) (*Page, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read content file").WithContext("path", path).Build()
	}
	page, err := l.parser.Parse(path, data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "parse content file").
			Warning().WithContext("path", path).Build()
	}
	page.Path = path
	return page, nil
}

// Load parses files for lang and injects url, lang and collection into each
// page's config. A file that fails to parse is skipped and reported in the
// returned error slice.
func (l *Loader) Load(files []File, lang string) ([]*Page, []error) {
	pages := make([]*Page, 0, len(files))
	var problems []error
	for _, f := range files {
		page, err := l.LoadFile(f.Path)
		if err != nil {
			l.logger.Warn("Skipping content file", logfields.Path(f.Path), logfields.Error(err))
			problems = append(problems, err)
			continue
		}
		page.URL = f.URL
		page.Collection = f.Collection
		page.IsListing = f.IsListing
		page.Lang = lang
		page.Config.URL = f.URL
		page.Config.Lang = lang
		if f.Collection != "" {
			page.Config.Collection = f.Collection
		}
		l.logger.Debug("Parsed content file", logfields.URL(f.URL), logfields.File(filepath.Base(f.Path)))
		pages = append(pages, page)
	}
	return pages, problems
}

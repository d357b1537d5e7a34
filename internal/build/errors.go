package build

import "errors"

// Sentinel errors classifying stage failures. They are wrapped with context
// at the call site.
var (
	ErrDiscovery   = errors.New("sitebuilder: discovery error")
	ErrContent     = errors.New("sitebuilder: content error")
	ErrBlocks      = errors.New("sitebuilder: block template error")
	ErrRender      = errors.New("sitebuilder: render error")
	ErrExport      = errors.New("sitebuilder: export error")
	ErrBrokenLinks = errors.New("sitebuilder: broken internal links")
)

package build

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"

	"github.com/inful/mdfp"

	"github.com/vividigit/sitebuilder/internal/content"
)

// Fingerprints computes a content fingerprint per page URL and an aggregate
// fingerprint over all pages, stable across runs for unchanged sources.
func Fingerprints(pages []*content.Page) (map[string]string, string) {
	byURL := make(map[string]string, len(pages))
	for _, p := range pages {
		byURL[p.URL] = mdfp.CalculateFingerprintFromParts(p.Source.Frontmatter, p.Source.Body)
	}
	if len(byURL) == 0 {
		return byURL, ""
	}
	urls := make([]string, 0, len(byURL))
	for u := range byURL {
		urls = append(urls, u)
	}
	slices.Sort(urls)

	h := sha256.New()
	for _, u := range urls {
		h.Write([]byte(u))
		h.Write([]byte{0})
		h.Write([]byte(byURL[u]))
		h.Write([]byte{'\n'})
	}
	return byURL, hex.EncodeToString(h.Sum(nil))
}

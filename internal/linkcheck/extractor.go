// Package linkcheck verifies that internal links in rendered pages point at
// files present in the build output.
package linkcheck

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

// Link is one URL reference found in a rendered page.
type Link struct {
	URL       string
	Tag       string
	Attribute string
}

var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"video":  "src",
	"audio":  "src",
	"source": "src",
	"iframe": "src",
}

// ExtractLinks parses an HTML file and returns its links.
func ExtractLinks(path string) ([]Link, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").WithContext("path", path).Build()
	}
	defer func() {
		_ = file.Close()
	}()
	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader returns the links of an HTML document in document order.
func ExtractLinksFromReader(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{URL: v, Tag: n.Data, Attribute: attr})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

var skipPrefixes = []string{"http://", "https://", "//", "mailto:", "tel:", "javascript:", "#", "data:"}

// ShouldCheck reports whether a link targets a file of this site.
func ShouldCheck(u string) bool {
	if u == "" || strings.Contains(u, "${") || strings.Contains(u, "{{") {
		return false
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(u, p) {
			return false
		}
	}
	return true
}

// Package fallback holds the "first non-empty value wins" helper used for
// labels (menu, then title, then slug) and entity types (type, then collection).
package fallback

import "strings"

// First returns the first candidate that is not blank, or "".
func First(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

package content

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// File is a discovered content file and the location data derived from its path.
type File struct {
	Path       string
	URL        string
	Collection string
	IsListing  bool
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// Discover lists the files for lang under dir, in lexical path order.
// Directories starting with "." or "_" are skipped.
func Discover(dir, lang string) ([]File, error) {
	marker := "." + lang + "."
	var files []File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.Contains(d.Name(), marker) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, Locate(path, rel))
		return nil
	})
	return files, err
}

// Locate derives URL, collection and listing status from a path relative to
// the content root:
//
//	home.en.toml                  /               (root page)
//	contact.en.toml               /contact
//	services/services.en.toml     /services       listing of "services"
//	services/seo/seo.en.toml      /services/seo   item of "services"
func Locate(path, rel string) File {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	f := File{Path: path}
	if len(parts) == 1 {
		name := strings.SplitN(parts[0], ".", 2)[0]
		if name == "home" || name == "index" {
			f.URL = "/"
		} else {
			f.URL = "/" + name
		}
		return f
	}
	f.URL = "/" + strings.Join(parts[:len(parts)-1], "/")
	f.Collection = parts[0]
	f.IsListing = len(parts) == 2
	return f
}

// DetectLanguages returns the sorted two-letter language codes used by files
// under dir (the second-to-last dot-separated filename segment).
func DetectLanguages(dir string) ([]string, error) {
	seen := map[string]struct{}{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		parts := strings.Split(d.Name(), ".")
		if len(parts) >= 3 && len(parts[len(parts)-2]) == 2 {
			seen[parts[len(parts)-2]] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(seen))
	for l := range seen {
		langs = append(langs, l)
	}
	slices.Sort(langs)
	return langs, nil
}

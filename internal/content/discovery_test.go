package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, data string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLocate(t *testing.T) {
	tests := []struct {
		rel        string
		url        string
		collection string
		listing    bool
	}{
		{"home.en.toml", "/", "", false},
		{"index.de.md", "/", "", false},
		{"contact.en.toml", "/contact", "", false},
		{"services/services.en.toml", "/services", "services", true},
		{"services/seo/seo.en.toml", "/services/seo", "services", false},
		{"blog/2025/post/post.en.md", "/blog/2025/post", "blog", false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			f := Locate("/content/"+tt.rel, tt.rel)
			require.Equal(t, tt.url, f.URL)
			require.Equal(t, tt.collection, f.Collection)
			require.Equal(t, tt.listing, f.IsListing)
		})
	}
}

func TestDiscoverSkipsHiddenAndUnderscoreDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "home.en.toml", "")
	writeFile(t, root, "home.de.toml", "")
	writeFile(t, root, "services/services.en.toml", "")
	writeFile(t, root, "services/seo/seo.en.toml", "")
	writeFile(t, root, "_global/site.en.toml", "")
	writeFile(t, root, ".git/x.en.toml", "")

	files, err := Discover(root, "en")
	require.NoError(t, err)

	var urls []string
	for _, f := range files {
		urls = append(urls, f.URL)
	}
	require.Equal(t, []string{"/", "/services/seo", "/services"}, urls)
}

func TestDetectLanguages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "home.en.toml", "")
	writeFile(t, root, "home.ru.toml", "")
	writeFile(t, root, "services/seo/seo.de.md", "")
	writeFile(t, root, "README.md", "")
	writeFile(t, root, "_tasks/audit/audit.fr.toml", "")

	langs, err := DetectLanguages(root)
	require.NoError(t, err)
	require.Equal(t, []string{"de", "en", "ru"}, langs)
}

package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const defaultIconSize = 24

var (
	svgWidthRe  = regexp.MustCompile(`(<svg[^>]*?)\s+width="[^"]*"`)
	svgHeightRe = regexp.MustCompile(`(<svg[^>]*?)\s+height="[^"]*"`)
	svgOpenRe   = regexp.MustCompile(`<svg([^>]*)>`)
)

const gradientDefs = `<defs><linearGradient id="%s" x1="0" y1="0" x2="24" y2="24" gradientUnits="userSpaceOnUse">` +
	`<stop offset="0%%" style="stop-color:var(--accent-start, #8b5cf6)"/>` +
	`<stop offset="100%%" style="stop-color:var(--accent-end, #6366f1)"/>` +
	`</linearGradient></defs>`

// Icons inlines SVG icons from a directory.
type Icons struct {
	dir string

	mu    sync.Mutex
	cache map[string]string
}

// NewIcons serves icons from dir/<name>.svg.
func NewIcons(dir string) *Icons {
	return &Icons{dir: dir, cache: make(map[string]string)}
}

// Func is the template function: {{icon "tech"}}, {{icon "check" 16 false}}.
// The optional arguments are the pixel size and whether to apply the accent
// gradient (default true).
func (i *Icons) Func(name string, args ...any) template.HTML {
	size, gradient := defaultIconSize, true
	for _, a := range args {
		switch v := a.(type) {
		case int:
			size = v
		case int64:
			size = int(v)
		case float64:
			size = int(v)
		case bool:
			gradient = v
		}
	}
	return i.Render(name, size, gradient)
}

// Render returns the icon markup, or an HTML comment when it is missing.
func (i *Icons) Render(name string, size int, gradient bool) template.HTML {
	svg, ok := i.load(name)
	if !ok {
		return template.HTML(fmt.Sprintf("<!-- Icon not found: %s -->", template.HTMLEscapeString(name))) // #nosec G203 -- escaped name in a comment
	}

	svg = replaceFirst(svgWidthRe, svg, "$1")
	svg = replaceFirst(svgHeightRe, svg, "$1")
	svg = replaceFirst(svgOpenRe, svg, fmt.Sprintf(`<svg$1 width="%d" height="%d" class="icon icon-%s">`, size, size, name))

	if gradient {
		id := "icon-grad-" + uuid.NewString()[:8]
		svg = strings.ReplaceAll(svg, `stroke="currentColor"`, fmt.Sprintf(`stroke="url(#%s)"`, id))
		svg = strings.Replace(svg, "</svg>", fmt.Sprintf(gradientDefs, id)+"</svg>", 1)
	}
	return template.HTML(svg) // #nosec G203 -- icons are theme files
}

func (i *Icons) load(name string) (string, bool) {
	if strings.ContainsAny(name, `/\`) || name == "" {
		return "", false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if svg, ok := i.cache[name]; ok {
		return svg, true
	}
	data, err := os.ReadFile(filepath.Join(i.dir, name+".svg"))
	if err != nil {
		return "", false
	}
	i.cache[name] = string(data)
	return i.cache[name], true
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, repl, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}

package content

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// markdownKeys are the block fields converted to HTML.
var markdownKeys = map[string]struct{}{
	"body":           {},
	"content":        {},
	"answer":         {},
	"description_md": {},
}

var excerptStrip = regexp.MustCompile("[#*_`\\[\\]]")

const (
	excerptLength = 200
	wordsPerMin   = 200
)

// Markdown converts content markdown to HTML.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown configures goldmark with tables, heading ids and raw HTML
// passthrough.
func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID(), parser.WithAttribute()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)}
}

// Convert renders src. Empty input renders to "".
func (m *Markdown) Convert(src string) string {
	out, _ := m.Article(src)
	return out
}

// Article renders src and builds a table of contents from its headings.
func (m *Markdown) Article(src string) (body, toc string) {
	if src == "" {
		return "", ""
	}
	source := []byte(src)
	ctx := parser.NewContext()
	root := m.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	var buf bytes.Buffer
	if err := m.md.Renderer().Render(&buf, source, root); err != nil {
		return html.EscapeString(src), ""
	}
	return buf.String(), tableOfContents(root, source)
}

// Fields converts the markdown fields of a table, recursing into nested
// tables and lists of tables. The input is not modified.
func (m *Markdown) Fields(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch t := v.(type) {
		case string:
			if _, ok := markdownKeys[k]; ok {
				out[k] = m.Convert(t)
				continue
			}
			out[k] = t
		case map[string]any:
			out[k] = m.Fields(t)
		case []any:
			items := make([]any, len(t))
			for i, item := range t {
				if sub, ok := item.(map[string]any); ok {
					items[i] = m.Fields(sub)
				} else {
					items[i] = item
				}
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}

type tocEntry struct {
	level int
	id    string
	title string
}

func tableOfContents(root gmast.Node, source []byte) string {
	var entries []tocEntry
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		var id string
		if v, found := h.AttributeString("id"); found {
			if b, isBytes := v.([]byte); isBytes {
				id = string(b)
			}
		}
		entries = append(entries, tocEntry{level: h.Level, id: id, title: nodeText(h, source)})
		return gmast.WalkSkipChildren, nil
	})
	if len(entries) == 0 {
		return ""
	}

	base := entries[0].level
	for _, e := range entries {
		base = min(base, e.level)
	}

	var b strings.Builder
	b.WriteString("<div class=\"toc\">\n<ul>\n")
	depth := 1
	for i, e := range entries {
		if i > 0 {
			want := min(e.level-base+1, depth+1)
			if want > depth {
				b.WriteString("\n<ul>\n")
				depth++
			} else {
				b.WriteString("</li>\n")
				for ; depth > want; depth-- {
					b.WriteString("</ul>\n</li>\n")
				}
			}
		}
		fmt.Fprintf(&b, "<li><a href=\"#%s\">%s</a>", html.EscapeString(e.id), html.EscapeString(e.title))
	}
	b.WriteString("</li>\n")
	for ; depth > 1; depth-- {
		b.WriteString("</ul>\n</li>\n")
	}
	b.WriteString("</ul>\n</div>\n")
	return b.String()
}

func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}

// Excerpt returns the first paragraph that is not a heading, stripped of
// markdown punctuation and cut to 200 characters.
func Excerpt(body string) string {
	for _, para := range strings.Split(strings.TrimSpace(body), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") {
			continue
		}
		runes := []rune(excerptStrip.ReplaceAllString(para, ""))
		if len(runes) > excerptLength {
			runes = runes[:excerptLength]
		}
		return string(runes)
	}
	return ""
}

// ReadingTime estimates minutes at 200 words per minute, at least one.
func ReadingTime(body string) int {
	minutes := int(math.RoundToEven(float64(len(strings.Fields(body))) / wordsPerMin))
	return max(1, minutes)
}

package content

import (
	"errors"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for files that are not TOML, YAML or Markdown.
	ErrUnsupportedFormat = errors.New("unsupported content format")
	// ErrNotATable is returned when a YAML document's root is not a mapping.
	ErrNotATable = errors.New("content root is not a table")
)

// keyOrder records the declaration order of table keys, indexed by the
// dotted path of the parent table ("" for the document root).
type keyOrder map[string][]string

func (o keyOrder) add(parent []string, key string) {
	p := strings.Join(parent, "\x00")
	if !slices.Contains(o[p], key) {
		o[p] = append(o[p], key)
	}
}

func (o keyOrder) children(path ...string) []string {
	return o[strings.Join(path, "\x00")]
}

// orderedKeys lists raw's keys in declaration order; keys the order does not
// know about follow, sorted.
func orderedKeys(raw map[string]any, order []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, k := range order {
		if _, ok := raw[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	var rest []string
	for k := range raw {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

func decodeTOML(data []byte) (map[string]any, keyOrder, error) {
	raw := map[string]any{}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, nil, err
	}
	order := keyOrder{}
	for _, key := range md.Keys() {
		for i := range key {
			order.add(key[:i], key[i])
		}
	}
	return raw, order, nil
}

func decodeYAML(data []byte) (map[string]any, keyOrder, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	order := keyOrder{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return map[string]any{}, order, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, ErrNotATable
	}
	raw := map[string]any{}
	if err := root.Decode(&raw); err != nil {
		return nil, nil, err
	}
	walkYAMLOrder(root, nil, order)
	return raw, order, nil
}

func walkYAMLOrder(n *yaml.Node, path []string, order keyOrder) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		order.add(path, key)
		if value.Kind == yaml.MappingNode {
			walkYAMLOrder(value, append(slices.Clone(path), key), order)
		}
	}
}

package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a document syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatDir  Format = "dir"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name. An empty name is FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatDir, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: auto, dir, json, yaml, toml)", s)
}

// Document is a parsed structured document. All children are known after
// parsing, so fetches resolve immediately.
type Document struct {
	root *Node
}

// ReadDocument reads and parses the file at path.
func ReadDocument(path string, format Format) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	if format == FormatAuto {
		format = formatFromExt(abs)
	}
	return ParseDocument(abs, data, format)
}

// ParseDocument parses data. name becomes the root's name and path.
func ParseDocument(name string, data []byte, format Format) (*Document, error) {
	d := &Document{}
	root := &Node{Name: filepath.Base(name), Path: name, owner: d}

	switch format {
	case FormatJSON, FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		b := yamlBuilder{d: d, active: map[*yaml.Node]bool{}}
		if err := b.build(root, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	case FormatTOML:
		var m map[string]any
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		d.fromValue(root, m)
	default:
		return nil, fmt.Errorf("%s: unsupported document format %q", name, format)
	}

	d.root = root
	return d, nil
}

// Roots returns the document root.
func (d *Document) Roots(context.Context) ([]*Node, error) {
	return []*Node{d.root}, nil
}

// Children returns the prebuilt children of n.
func (d *Document) Children(n *Node) (<-chan []*Node, error) {
	if !n.Expandable() {
		return never(), nil
	}
	return resolved(n.children), nil
}

func (d *Document) child(parent *Node, key string) *Node {
	return &Node{
		Name:  key,
		Path:  pointer(parent.Path, key),
		Depth: parent.Depth + 1,
		owner: d,
	}
}

// maxAliasExpansions bounds how often aliases may be resolved in one
// document, so nested anchors cannot multiply into an enormous tree.
const maxAliasExpansions = 10000

// yamlBuilder converts a yaml.Node tree. active holds the anchors being
// expanded on the current path.
type yamlBuilder struct {
	d       *Document
	active  map[*yaml.Node]bool
	aliases int
}

func (b *yamlBuilder) build(n *Node, y *yaml.Node) error {
	if y.Kind == yaml.DocumentNode {
		if len(y.Content) == 0 {
			n.Kind = Value
			return nil
		}
		return b.build(n, y.Content[0])
	}
	if y.Kind == yaml.AliasNode {
		if y.Alias == nil {
			return fmt.Errorf("unknown alias %q at line %d", y.Value, y.Line)
		}
		if b.active[y.Alias] {
			return fmt.Errorf("recursive alias %q at line %d", y.Value, y.Line)
		}
		b.aliases++
		if b.aliases > maxAliasExpansions {
			return fmt.Errorf("more than %d alias expansions at line %d", maxAliasExpansions, y.Line)
		}
		return b.build(n, y.Alias)
	}
	if y.Anchor != "" {
		b.active[y] = true
		defer delete(b.active, y)
	}

	switch y.Kind {
	case yaml.MappingNode:
		n.Kind = Object
		for i := 0; i+1 < len(y.Content); i += 2 {
			c := b.d.child(n, y.Content[i].Value)
			if err := b.build(c, y.Content[i+1]); err != nil {
				return err
			}
			n.children = append(n.children, c)
		}
	case yaml.SequenceNode:
		n.Kind = Array
		for i, item := range y.Content {
			c := b.d.child(n, strconv.Itoa(i))
			if err := b.build(c, item); err != nil {
				return err
			}
			n.children = append(n.children, c)
		}
	default:
		n.Kind = Value
		n.Value = y.Value
	}
	n.Size = int64(len(n.children))
	return nil
}

func (d *Document) fromValue(n *Node, v any) {
	switch v := v.(type) {
	case map[string]any:
		n.Kind = Object
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c := d.child(n, k)
			d.fromValue(c, v[k])
			n.children = append(n.children, c)
		}
	case []map[string]any:
		n.Kind = Array
		for i, item := range v {
			c := d.child(n, strconv.Itoa(i))
			d.fromValue(c, item)
			n.children = append(n.children, c)
		}
	case []any:
		n.Kind = Array
		for i, item := range v {
			c := d.child(n, strconv.Itoa(i))
			d.fromValue(c, item)
			n.children = append(n.children, c)
		}
	default:
		n.Kind = Value
		n.Value = fmt.Sprint(v)
	}
	n.Size = int64(len(n.children))
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pointer appends key to a JSON pointer. The document root has no "#".
func pointer(parent, key string) string {
	key = pointerEscaper.Replace(key)
	if strings.Contains(parent, "#") {
		return parent + "/" + key
	}
	return parent + "#/" + key
}

func formatFromExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return ""
}

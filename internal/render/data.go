package render

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"github.com/trap-engine/trap-docs/internal/settings"
	"gopkg.in/yaml.v3"
)

// renderYAML keeps field order by building the document as a node tree.
func renderYAML(fields settings.Options, meta Meta) ([]byte, error) {
	root, err := yamlNode(fields)
	if err != nil {
		return nil, err
	}
	if meta.Tool != "" {
		root.HeadComment = "Generated by " + meta.Tool
	}

	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return []byte(sb.String()), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case settings.Options:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, o := range t {
			val, err := yamlNode(o.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", o.Name, err)
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: o.Name}, val)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range t {
			val, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, val)
		}
		return n, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// renderTOML emits a TOML document. TOML has no null, so nil values are dropped.
func renderTOML(fields settings.Options) ([]byte, error) {
	out, err := toml.Marshal(dropNil(fields.Map()))
	if err != nil {
		return nil, fmt.Errorf("encoding TOML: %w", err)
	}
	return out, nil
}

func dropNil(m map[string]any) map[string]any {
	for k, v := range m {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = dropNilValue(v)
	}
	return m
}

func dropNilValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return dropNil(t)
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			if e != nil {
				out = append(out, dropNilValue(e))
			}
		}
		return out
	default:
		return v
	}
}

// renderJSON sets fields one by one so the object keeps conf.py order.
func renderJSON(fields settings.Options) ([]byte, error) {
	out, err := setJSON([]byte("{}"), "", fields)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(out), nil
}

func setJSON(doc []byte, prefix string, opts settings.Options) ([]byte, error) {
	var err error
	for _, o := range opts {
		path := escapeKey(o.Name)
		if prefix != "" {
			path = prefix + "." + path
		}

		if nested, ok := o.Value.(settings.Options); ok {
			if doc, err = sjson.SetRawBytes(doc, path, []byte("{}")); err != nil {
				return nil, fmt.Errorf("encoding JSON %s: %w", o.Name, err)
			}
			if doc, err = setJSON(doc, path, nested); err != nil {
				return nil, err
			}
			continue
		}

		if doc, err = sjson.SetBytes(doc, path, settings.Plain(o.Value)); err != nil {
			return nil, fmt.Errorf("encoding JSON %s: %w", o.Name, err)
		}
	}
	return doc, nil
}

// escapeKey quotes path syntax so a key is taken literally by sjson.
func escapeKey(key string) string {
	var sb strings.Builder
	if isNumeric(key) {
		sb.WriteByte(':')
	}
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!', ':', '=', '<', '>', '%':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

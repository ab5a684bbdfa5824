// Package stamp writes the resolved release into other project files.
package stamp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/sjson"
	"github.com/trap-engine/trap-docs/internal/docs"
	"github.com/trap-engine/trap-docs/internal/logger"
	"gopkg.in/yaml.v3"
)

// Format is the kind of file a target is.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatSection Format = "section"
)

// Target is a file that receives the release.
type Target struct {
	Path   string
	Format Format
	Field  string // dotted path for json, yaml and toml
	Marker string // managed section name for section targets
}

// Stamper applies the release to targets.
type Stamper struct {
	dryRun bool
}

// New creates a Stamper. In dry-run mode files are never written.
func New(dryRun bool) *Stamper {
	return &Stamper{dryRun: dryRun}
}

// Apply writes release into t and reports whether the file changed.
func (s *Stamper) Apply(ctx context.Context, t Target, release string) (bool, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", t.Path, err)
	}

	var updated []byte
	switch t.Format {
	case FormatJSON:
		updated, err = setJSON(data, t.Field, release)
	case FormatYAML:
		updated, err = setYAML(data, t.Field, release)
	case FormatTOML:
		updated, err = setTOML(data, t.Field, release)
	case FormatSection:
		updated, err = setSection(t, data, release)
	default:
		err = fmt.Errorf("unsupported format %q", t.Format)
	}
	if err != nil {
		return false, fmt.Errorf("stamping %s: %w", t.Path, err)
	}

	if bytes.Equal(data, updated) {
		logger.DebugKV(ctx, "stamp target unchanged", "path", t.Path)
		return false, nil
	}
	if s.dryRun {
		logger.Infof(ctx, "would update %s", t.Path)
		return true, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", t.Path, err)
	}
	if err := docs.WriteFile(t.Path, updated, info.Mode().Perm()); err != nil {
		return false, err
	}
	logger.InfoKV(ctx, "stamped release", "path", t.Path, "release", release)
	return true, nil
}

// setJSON updates a single field, leaving the rest of the document untouched.
func setJSON(data []byte, field, release string) ([]byte, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required for JSON format")
	}
	updated, err := sjson.SetBytes(data, field, release)
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 && updated[len(updated)-1] != '\n' && bytes.HasSuffix(data, []byte("\n")) {
		updated = append(updated, '\n')
	}
	return updated, nil
}

// setYAML edits the node tree so comments and key order survive.
func setYAML(data []byte, field, release string) ([]byte, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required for YAML format")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("YAML document is not a mapping")
	}

	node := doc.Content[0]
	keys := strings.Split(field, ".")
	for i, key := range keys {
		last := i == len(keys)-1
		child := lookupKey(node, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode}
			if last {
				child = &yaml.Node{Kind: yaml.ScalarNode}
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}
		if last {
			if child.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("field %q is not a scalar", field)
			}
			if child.Value == release {
				return data, nil
			}
			child.Tag = "!!str"
			child.Value = release
			break
		}
		if child.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("field %q: %q is not a mapping", field, key)
		}
		node = child
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func lookupKey(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setTOML round-trips the document; comments are not preserved.
func setTOML(data []byte, field, release string) ([]byte, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required for TOML format")
	}

	var obj map[string]any
	if err := toml.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if obj == nil {
		obj = make(map[string]any)
	}

	if current, ok := lookupNested(obj, field); ok && current == release {
		return data, nil
	}
	if err := setNested(obj, field, release); err != nil {
		return nil, err
	}

	out, err := toml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encoding TOML: %w", err)
	}
	return out, nil
}

// setNested sets a value in a nested map using dot notation,
// e.g. "tool.trap.version" sets obj["tool"]["trap"]["version"].
func setNested(obj map[string]any, field string, value any) error {
	keys := strings.Split(field, ".")
	current := obj
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key]
		if !ok {
			m := make(map[string]any)
			current[key] = m
			current = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("field %q: %q is not a table", field, key)
		}
		current = m
	}
	current[keys[len(keys)-1]] = value
	return nil
}

func lookupNested(obj map[string]any, field string) (any, bool) {
	var current any = obj
	for _, key := range strings.Split(field, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[key]; !ok {
			return nil, false
		}
	}
	return current, true
}

// SectionBody is the text placed inside a managed version section.
func SectionBody(release string) string {
	return fmt.Sprintf("Current release: **%s**", release)
}

func setSection(t Target, data []byte, release string) ([]byte, error) {
	m := docs.NewManager(t.Marker)
	doc := &docs.Document{Path: t.Path, Content: string(data), Syntax: docs.SyntaxFor(t.Path)}
	if !m.HasSection(doc) {
		begin, end := doc.Syntax.Markers(t.Marker)
		return nil, fmt.Errorf("no managed section (%s / %s)", begin, end)
	}
	if _, err := m.UpdateSection(doc, SectionBody(release)); err != nil {
		return nil, err
	}
	return []byte(doc.Content), nil
}

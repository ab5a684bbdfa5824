// Package settings builds the configuration object handed to Sphinx.
package settings

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trap-engine/trap-docs/internal/config"
	"github.com/trap-engine/trap-docs/internal/version"
	"gopkg.in/yaml.v3"
)

// identRe matches names usable as top-level conf.py variables.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// builtinNames are the options Fields emits from Settings itself.
// Extra options may not redefine them.
var builtinNames = map[string]bool{
	"project":            true,
	"copyright":          true,
	"author":             true,
	"release":            true,
	"version":            true,
	"language":           true,
	"root_doc":           true,
	"source_suffix":      true,
	"extensions":         true,
	"templates_path":     true,
	"exclude_patterns":   true,
	"pygments_style":     true,
	"html_theme":         true,
	"html_static_path":   true,
	"html_logo":          true,
	"html_favicon":       true,
	"html_theme_options": true,
}

// Option is a single named configuration value.
type Option struct {
	Name  string
	Value any
}

// Options is an ordered set of configuration values.
// Used as a value, it renders as a dict/table/object.
type Options []Option

// Settings is the documentation generator configuration.
// It is populated once per build, after the release is resolved.
type Settings struct {
	Project          string
	Copyright        string
	Author           string
	Release          string
	Version          string
	Language         string
	RootDoc          string
	SourceSuffix     []string
	Extensions       []string
	TemplatesPath    []string
	ExcludePatterns  []string
	PygmentsStyle    string
	HTMLTheme        string
	HTMLStaticPath   []string
	HTMLLogo         string
	HTMLFavicon      string
	HTMLThemeOptions Options
	Extra            Options
}

// Build populates Settings from cfg and the resolved release.
// now supplies the {year} placeholder in the copyright line.
func Build(cfg *config.Config, release string, now time.Time) (*Settings, error) {
	extra, err := decodeExtra(&cfg.Sphinx.Extra)
	if err != nil {
		return nil, err
	}

	sc := cfg.Sphinx
	s := &Settings{
		Project:          cfg.Project.Name,
		Copyright:        strings.ReplaceAll(cfg.Project.Copyright, "{year}", strconv.Itoa(now.Year())),
		Author:           cfg.Project.Author,
		Release:          release,
		Version:          version.Short(release),
		Language:         sc.Language,
		RootDoc:          sc.RootDoc,
		SourceSuffix:     sc.SourceSuffix,
		Extensions:       sc.Extensions,
		TemplatesPath:    sc.TemplatesPath,
		ExcludePatterns:  sc.ExcludePatterns,
		PygmentsStyle:    sc.PygmentsStyle,
		HTMLTheme:        sc.HTMLTheme,
		HTMLStaticPath:   sc.HTMLStaticPath,
		HTMLLogo:         sc.HTMLLogo,
		HTMLFavicon:      sc.HTMLFavicon,
		HTMLThemeOptions: sortedOptions(sc.HTMLThemeOptions),
		Extra:            extra,
	}
	return s, nil
}

// Fields returns the settings as Sphinx option names in conf.py order.
// Unset values are omitted; project, release and version are always present.
func (s *Settings) Fields() Options {
	fields := Options{
		{Name: "project", Value: s.Project},
	}
	add := func(name string, value any) {
		switch v := value.(type) {
		case string:
			if v == "" {
				return
			}
		case []string:
			if len(v) == 0 {
				return
			}
		case Options:
			if len(v) == 0 {
				return
			}
		}
		fields = append(fields, Option{Name: name, Value: value})
	}

	add("copyright", s.Copyright)
	add("author", s.Author)
	fields = append(fields,
		Option{Name: "release", Value: s.Release},
		Option{Name: "version", Value: s.Version},
	)
	add("language", s.Language)
	add("root_doc", s.RootDoc)
	add("source_suffix", s.SourceSuffix)
	add("extensions", s.Extensions)
	add("templates_path", s.TemplatesPath)
	add("exclude_patterns", s.ExcludePatterns)
	add("pygments_style", s.PygmentsStyle)
	add("html_theme", s.HTMLTheme)
	add("html_static_path", s.HTMLStaticPath)
	add("html_logo", s.HTMLLogo)
	add("html_favicon", s.HTMLFavicon)
	add("html_theme_options", s.HTMLThemeOptions)

	return append(fields, s.Extra...)
}

// decodeExtra converts the extra mapping into ordered options.
// Nested mappings keep their key order as Options.
func decodeExtra(node *yaml.Node) (Options, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	v, err := fromNode(node)
	if err != nil {
		return nil, fmt.Errorf("decoding sphinx.extra: %w", err)
	}
	opts, ok := v.(Options)
	if !ok {
		return nil, fmt.Errorf("decoding sphinx.extra: not a mapping")
	}
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if !identRe.MatchString(o.Name) {
			return nil, fmt.Errorf("sphinx.extra: %q is not a valid option name", o.Name)
		}
		if builtinNames[o.Name] {
			return nil, fmt.Errorf("sphinx.extra: %q is set by trap-docs, configure it outside extra", o.Name)
		}
		if seen[o.Name] {
			return nil, fmt.Errorf("sphinx.extra: duplicate option %q", o.Name)
		}
		seen[o.Name] = true
	}
	return opts, nil
}

func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromNode(node.Content[0])
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.MappingNode:
		opts := make(Options, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val, err := fromNode(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			opts = append(opts, Option{Name: key, Value: val})
		}
		return opts, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, n := range node.Content {
			val, err := fromNode(n)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	default:
		// Dates stay as written; time.Time has no literal in the output formats.
		if node.ShortTag() == "!!timestamp" {
			return node.Value, nil
		}
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// sortedOptions orders a plain map by key, converting nested maps too.
func sortedOptions(m map[string]any) Options {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make(Options, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, Option{Name: k, Value: normalizeValue(m[k])})
	}
	return opts
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return sortedOptions(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

// Map converts options into plain nested maps, for encoders that sort keys.
func (o Options) Map() map[string]any {
	m := make(map[string]any, len(o))
	for _, opt := range o {
		m[opt.Name] = Plain(opt.Value)
	}
	return m
}

// Plain converts Options found anywhere inside v into nested maps.
func Plain(v any) any {
	switch t := v.(type) {
	case Options:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultHeader is the version header looked up when none is configured,
// relative to the config file.
const DefaultHeader = "../TRAP/src/Core/Base.h"

// DefaultVersionMarker names the managed section stamped with the release.
const DefaultVersionMarker = "TRAP MANAGED VERSION SECTION"

// Config represents the complete configuration for the documentation build.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Version VersionConfig `yaml:"version"`
	Sphinx  SphinxConfig  `yaml:"sphinx"`
	Output  OutputConfig  `yaml:"output"`
	Stamp   []StampTarget `yaml:"stamp"`
	Markers MarkersConfig `yaml:"markers"`

	// dir is the absolute directory of the loaded config file.
	dir string
}

// ProjectConfig holds project metadata.
type ProjectConfig struct {
	Name      string `yaml:"name"`
	Author    string `yaml:"author"`
	Copyright string `yaml:"copyright"` // may contain {year}
}

// VersionConfig configures version extraction.
type VersionConfig struct {
	Headers  []string        `yaml:"headers"`  // candidates, relative to the config file
	Grammars []GrammarConfig `yaml:"grammars"` // replaces the built-in grammars when set
	Strict   bool            `yaml:"strict"`   // fail instead of falling back to the sentinel
}

// GrammarConfig declares a custom version declaration shape.
type GrammarConfig struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// SphinxConfig holds the values handed to the documentation generator.
type SphinxConfig struct {
	Language         string         `yaml:"language"`
	RootDoc          string         `yaml:"root_doc"`
	SourceSuffix     []string       `yaml:"source_suffix"`
	Extensions       []string       `yaml:"extensions"`
	TemplatesPath    []string       `yaml:"templates_path"`
	ExcludePatterns  []string       `yaml:"exclude_patterns"`
	PygmentsStyle    string         `yaml:"pygments_style"`
	HTMLTheme        string         `yaml:"html_theme"`
	HTMLStaticPath   []string       `yaml:"html_static_path"`
	HTMLLogo         string         `yaml:"html_logo"`
	HTMLFavicon      string         `yaml:"html_favicon"`
	HTMLThemeOptions map[string]any `yaml:"html_theme_options"`
	Extra            yaml.Node      `yaml:"extra"` // mapping, order preserved
}

// OutputConfig configures rendering of the generator configuration.
type OutputConfig struct {
	Format   string `yaml:"format"`   // python, yaml, toml or json
	Path     string `yaml:"path"`     // empty writes to stdout
	Template string `yaml:"template"` // custom conf.py template
}

// StampTarget is a file that receives the resolved release.
type StampTarget struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // json, yaml, toml or section
	Field  string `yaml:"field"`  // dotted field for json, yaml and toml
	Marker string `yaml:"marker"` // section marker, defaults to markers.version
}

// MarkersConfig defines managed section marker names.
type MarkersConfig struct {
	Version string `yaml:"version"`
}

var (
	outputFormats = []string{"python", "yaml", "toml", "json"}
	stampFormats  = []string{"json", "yaml", "toml", "section"}
)

// Load reads and parses a config file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes config data whose relative paths are anchored at dir.
func Parse(data []byte, dir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.dir = dir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Version.Headers) == 0 {
		c.Version.Headers = []string{DefaultHeader}
	}
	if c.Output.Format == "" {
		c.Output.Format = "python"
	}
	if c.Markers.Version == "" {
		c.Markers.Version = DefaultVersionMarker
	}
	for i := range c.Stamp {
		if c.Stamp[i].Marker == "" {
			c.Stamp[i].Marker = c.Markers.Version
		}
	}
}

// Validate checks the configuration for required fields and consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return fmt.Errorf("project.name is required")
	}

	for i, h := range c.Version.Headers {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("version.headers[%d] is empty", i)
		}
	}

	seen := make(map[string]bool)
	for i, g := range c.Version.Grammars {
		if g.Name == "" {
			return fmt.Errorf("version.grammars[%d]: name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("version.grammars[%d]: duplicate name %q", i, g.Name)
		}
		seen[g.Name] = true
		if strings.TrimSpace(g.Prefix) == "" || g.Suffix == "" {
			return fmt.Errorf("version.grammars[%d] (%s): prefix and suffix are required", i, g.Name)
		}
	}

	if !contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("output.format %q is not one of %s", c.Output.Format, strings.Join(outputFormats, ", "))
	}

	if c.Sphinx.Extra.Kind != 0 && c.Sphinx.Extra.Kind != yaml.MappingNode {
		return fmt.Errorf("sphinx.extra must be a mapping")
	}

	for i, s := range c.Stamp {
		if s.Path == "" {
			return fmt.Errorf("stamp[%d]: path is required", i)
		}
		if !contains(stampFormats, s.Format) {
			return fmt.Errorf("stamp[%d]: format %q is not one of %s", i, s.Format, strings.Join(stampFormats, ", "))
		}
		if s.Format != "section" && s.Field == "" {
			return fmt.Errorf("stamp[%d]: field is required for %s targets", i, s.Format)
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string {
	return c.dir
}

// Resolve anchors a relative path at the config file's directory.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

// HeaderPaths returns the resolved header candidates in lookup order.
func (c *Config) HeaderPaths() []string {
	paths := make([]string, 0, len(c.Version.Headers))
	for _, h := range c.Version.Headers {
		paths = append(paths, c.Resolve(strings.TrimSpace(h)))
	}
	return paths
}

// OutputPath returns the resolved output path, or "" or "-" for stdout.
func (c *Config) OutputPath() string {
	if c.Output.Path == "-" {
		return c.Output.Path
	}
	return c.Resolve(c.Output.Path)
}

// TemplatePath returns the resolved conf.py template path, or "" for the built-in one.
func (c *Config) TemplatePath() string {
	return c.Resolve(c.Output.Template)
}

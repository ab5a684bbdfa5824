// Package render emits the documentation generator configuration.
package render

import (
	"fmt"
	"strings"

	"github.com/trap-engine/trap-docs/internal/settings"
	"github.com/trap-engine/trap-docs/internal/template"
)

// Format is an output encoding for the settings.
type Format string

const (
	Python Format = "python"
	YAML   Format = "yaml"
	TOML   Format = "toml"
	JSON   Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Python, YAML, TOML, JSON:
		return f, nil
	case "py":
		return Python, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want python, yaml, toml or json)", s)
	}
}

// Meta describes where the release came from.
type Meta struct {
	Tool    string
	Header  string
	Line    int
	Grammar string
	Status  string
}

// ConfData is the data handed to the conf.py template.
type ConfData struct {
	Meta
	Settings *settings.Settings
}

// Renderer turns settings into bytes in a given format.
type Renderer struct {
	engine *template.Engine
}

// New creates a renderer. templatePath overrides the built-in conf.py template.
func New(templatePath string) (*Renderer, error) {
	engine := template.New()
	if err := engine.LoadConf(templatePath); err != nil {
		return nil, fmt.Errorf("loading conf.py template: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

// Render encodes s in format f.
func (r *Renderer) Render(f Format, s *settings.Settings, meta Meta) ([]byte, error) {
	switch f {
	case Python:
		out, err := r.engine.Render(template.ConfName, ConfData{Meta: meta, Settings: s})
		if err != nil {
			return nil, fmt.Errorf("rendering conf.py: %w", err)
		}
		return []byte(out), nil
	case YAML:
		return renderYAML(s.Fields(), meta)
	case TOML:
		return renderTOML(s.Fields())
	case JSON:
		return renderJSON(s.Fields())
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

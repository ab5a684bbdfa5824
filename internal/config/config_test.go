package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleConfig = `
project:
  name: TRAP
  author: TrappedGames
  copyright: "{year}, TrappedGames"
version:
  headers:
    - ../TRAP/src/Core/Base.h
    - /abs/Core.h
sphinx:
  extensions: [breathe, exhale]
  html_theme: sphinx_rtd_theme
  html_theme_options:
    collapse_navigation: false
  extra:
    breathe_default_project: TRAP
    primary_domain: cpp
stamp:
  - path: package.json
    format: json
    field: version
  - path: README.md
    format: section
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o755))
	path := filepath.Join(docsDir, "trap-docs.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "TRAP", cfg.Project.Name)
	assert.Equal(t, docsDir, cfg.Dir())
	assert.Equal(t, []string{
		filepath.Join(dir, "TRAP", "src", "Core", "Base.h"),
		"/abs/Core.h",
	}, cfg.HeaderPaths())

	// Defaults
	assert.Equal(t, "python", cfg.Output.Format)
	assert.Equal(t, "", cfg.OutputPath())
	assert.Equal(t, DefaultVersionMarker, cfg.Markers.Version)
	assert.Equal(t, DefaultVersionMarker, cfg.Stamp[1].Marker)

	assert.Equal(t, []string{"breathe", "exhale"}, cfg.Sphinx.Extensions)
	assert.Equal(t, false, cfg.Sphinx.HTMLThemeOptions["collapse_navigation"])
	assert.Equal(t, yaml.MappingNode, cfg.Sphinx.Extra.Kind)
	assert.Equal(t, filepath.Join(docsDir, "package.json"), cfg.Resolve(cfg.Stamp[0].Path))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestParse_DefaultHeader(t *testing.T) {
	cfg, err := Parse([]byte("project:\n  name: TRAP\n"), "/repo/docs")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("/repo", "TRAP", "src", "Core", "Base.h")}, cfg.HeaderPaths())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing project name",
			yaml:    "project: {}\n",
			wantErr: "project.name is required",
		},
		{
			name:    "blank header",
			yaml:    "project: {name: T}\nversion:\n  headers: [\"  \"]\n",
			wantErr: "version.headers[0] is empty",
		},
		{
			name:    "grammar without suffix",
			yaml:    "project: {name: T}\nversion:\n  grammars:\n    - {name: g, prefix: p}\n",
			wantErr: "prefix and suffix are required",
		},
		{
			name:    "duplicate grammar",
			yaml:    "project: {name: T}\nversion:\n  grammars:\n    - {name: g, prefix: p, suffix: s}\n    - {name: g, prefix: q, suffix: s}\n",
			wantErr: "duplicate name",
		},
		{
			name:    "bad output format",
			yaml:    "project: {name: T}\noutput: {format: xml}\n",
			wantErr: "output.format",
		},
		{
			name:    "extra is a list",
			yaml:    "project: {name: T}\nsphinx:\n  extra: [a, b]\n",
			wantErr: "sphinx.extra must be a mapping",
		},
		{
			name:    "stamp without field",
			yaml:    "project: {name: T}\nstamp:\n  - {path: a.toml, format: toml}\n",
			wantErr: "field is required",
		},
		{
			name:    "stamp bad format",
			yaml:    "project: {name: T}\nstamp:\n  - {path: a.ini, format: ini, field: v}\n",
			wantErr: "format \"ini\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "/repo/docs")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "", want: ""},
		{path: "-", want: "-"},
		{path: "conf.py", want: filepath.Join("/repo/docs", "conf.py")},
		{path: "/out/conf.py", want: "/out/conf.py"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cfg, err := Parse([]byte("project: {name: TRAP}\noutput:\n  path: \""+tt.path+"\"\n"), "/repo/docs")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.OutputPath())
		})
	}
}

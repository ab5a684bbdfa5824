package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trap-engine/trap-docs/internal/config"
)

func loadConfig(t *testing.T, data string) *config.Config {
	t.Helper()

	cfg, err := config.Parse([]byte(data), "/repo/docs")
	require.NoError(t, err)
	return cfg
}

func names(opts Options) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Name)
	}
	return out
}

func TestBuild(t *testing.T) {
	cfg := loadConfig(t, `
project:
  name: TRAP
  author: TrappedGames
  copyright: "2019-{year}, TrappedGames"
sphinx:
  extensions: [breathe]
  html_theme: furo
  html_theme_options:
    sidebar_hide_name: true
    light_css_variables:
      color-brand-primary: "#336"
  extra:
    primary_domain: cpp
    breathe_projects:
      TRAP: ../build/xml
`)

	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	s, err := Build(cfg, "0.10.93", now)
	require.NoError(t, err)

	assert.Equal(t, "2019-2026, TrappedGames", s.Copyright)
	assert.Equal(t, "0.10.93", s.Release)
	assert.Equal(t, "0.10", s.Version)
	assert.Equal(t, []string{"light_css_variables", "sidebar_hide_name"}, names(s.HTMLThemeOptions))
	assert.Equal(t, Options{{Name: "color-brand-primary", Value: "#336"}}, s.HTMLThemeOptions[0].Value)

	require.Len(t, s.Extra, 2)
	assert.Equal(t, "primary_domain", s.Extra[0].Name)
	assert.Equal(t, Options{{Name: "TRAP", Value: "../build/xml"}}, s.Extra[1].Value)

	assert.Equal(t, []string{
		"project", "copyright", "author", "release", "version",
		"extensions", "html_theme", "html_theme_options",
		"primary_domain", "breathe_projects",
	}, names(s.Fields()))
}

func TestFields_Sentinel(t *testing.T) {
	cfg := loadConfig(t, "project: {name: TRAP}\n")

	s, err := Build(cfg, "Unknown", time.Now())
	require.NoError(t, err)

	fields := s.Fields()
	assert.Equal(t, []string{"project", "release", "version"}, names(fields))
	assert.Equal(t, "Unknown", fields[1].Value)
	assert.Equal(t, "Unknown", fields[2].Value)
}

func TestOptionsMap(t *testing.T) {
	opts := Options{
		{Name: "a", Value: 1},
		{Name: "b", Value: Options{{Name: "c", Value: []any{Options{{Name: "d", Value: true}}}}}},
	}

	assert.Equal(t, map[string]any{
		"a": 1,
		"b": map[string]any{"c": []any{map[string]any{"d": true}}},
	}, opts.Map())
}

func TestBuild_InvalidExtraName(t *testing.T) {
	cfg := loadConfig(t, "project: {name: TRAP}\nsphinx:\n  extra:\n    html-theme: furo\n")

	_, err := Build(cfg, "1.2.3", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid option name")
}

func TestBuild_ExtraRedefinesBuiltin(t *testing.T) {
	for _, name := range []string{"release", "version", "project", "html_theme_options"} {
		t.Run(name, func(t *testing.T) {
			cfg := loadConfig(t, "project: {name: TRAP}\nsphinx:\n  extra:\n    "+name+": \"9.9.9\"\n")

			_, err := Build(cfg, "0.10.93", time.Now())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "is set by trap-docs")
		})
	}
}

// Every name Fields can emit outside extra must be reserved.
func TestBuiltinNamesCoverFields(t *testing.T) {
	s := &Settings{
		Project: "p", Copyright: "c", Author: "a", Release: "1.2.3", Version: "1.2",
		Language: "en", RootDoc: "index", SourceSuffix: []string{".rst"},
		Extensions: []string{"breathe"}, TemplatesPath: []string{"_templates"},
		ExcludePatterns: []string{"_build"}, PygmentsStyle: "sphinx", HTMLTheme: "furo",
		HTMLStaticPath: []string{"_static"}, HTMLLogo: "logo.png", HTMLFavicon: "favicon.ico",
		HTMLThemeOptions: Options{{Name: "x", Value: 1}},
	}

	fields := s.Fields()
	assert.Len(t, fields, len(builtinNames))
	for _, f := range fields {
		assert.True(t, builtinNames[f.Name], f.Name)
	}
}

func TestBuild_ExtraValues(t *testing.T) {
	cfg := loadConfig(t, `
project: {name: TRAP}
sphinx:
  extra:
    today: 2024-01-02
    quoted_today: "2024-01-02"
    nitpick_ignore: [null, ["cpp:identifier", TRAP], ~]
    numfig: true
    linkcheck_timeout: 1.5
    breathe_projects:
      TRAP: null
`)

	s, err := Build(cfg, "0.10.93", time.Now())
	require.NoError(t, err)

	assert.Equal(t, Options{
		{Name: "today", Value: "2024-01-02"},
		{Name: "quoted_today", Value: "2024-01-02"},
		{Name: "nitpick_ignore", Value: []any{nil, []any{"cpp:identifier", "TRAP"}, nil}},
		{Name: "numfig", Value: true},
		{Name: "linkcheck_timeout", Value: 1.5},
		{Name: "breathe_projects", Value: Options{{Name: "TRAP", Value: nil}}},
	}, s.Extra)
}

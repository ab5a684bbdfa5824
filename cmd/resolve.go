package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/trap-engine/trap-docs/internal/config"
	"github.com/trap-engine/trap-docs/internal/render"
	"github.com/trap-engine/trap-docs/internal/runtime"
	"github.com/trap-engine/trap-docs/internal/version"
)

// errNoVersion is returned in strict mode when only the sentinel is available.
var errNoVersion = errors.New("no release version found")

// loadConfig loads the configuration named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newExtractor builds an extractor from the configured grammars.
func newExtractor(cfg *config.Config) (*version.Extractor, error) {
	grammars := make([]version.Grammar, 0, len(cfg.Version.Grammars))
	for _, g := range cfg.Version.Grammars {
		grammar := version.Grammar{Name: g.Name, Prefix: g.Prefix, Suffix: g.Suffix}
		if err := grammar.Validate(); err != nil {
			return nil, err
		}
		grammars = append(grammars, grammar)
	}
	return version.NewExtractor(grammars...), nil
}

// resolveRelease extracts the release from the configured header candidates.
func resolveRelease(ctx context.Context, cfg *config.Config, strict bool) (version.Result, error) {
	extractor, err := newExtractor(cfg)
	if err != nil {
		return version.Result{}, err
	}

	res, err := extractor.ExtractFirst(ctx, cfg.HeaderPaths())
	if err != nil {
		return version.Result{}, fmt.Errorf("extracting version: %w", err)
	}

	if !res.Known() && (strict || cfg.Version.Strict) {
		return res, fmt.Errorf("%w (%s: %s)", errNoVersion, res.Status, res.Path)
	}
	return res, nil
}

// releaseMeta describes res for generated file headers.
func releaseMeta(cfg *config.Config, res version.Result) render.Meta {
	header := res.Path
	if rel, err := filepath.Rel(cfg.Dir(), res.Path); err == nil {
		header = filepath.ToSlash(rel)
	}
	return render.Meta{
		Tool:    runtime.Banner(),
		Header:  header,
		Line:    res.Line,
		Grammar: res.Grammar,
		Status:  res.Status.String(),
	}
}

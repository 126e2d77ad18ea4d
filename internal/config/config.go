// Package config loads tool configuration from an HCL file, with
// defaults for everything so a missing file is never an error.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/agentic-research/folio/internal/doctree"
	"github.com/agentic-research/folio/internal/suggest"
)

// Config is the on-disk configuration schema.
type Config struct {
	// DocsDir is the corpus root to load Markdown documents from.
	DocsDir string `hcl:"docs_dir,optional"`
	// PageWordLimit is the word ceiling for lazy pagination.
	PageWordLimit int `hcl:"page_word_limit,optional"`
	// MaxSuggestions caps correction candidates on failed resolutions.
	MaxSuggestions int `hcl:"max_suggestions,optional"`
	// MinSimilarity is the suggestion cutoff ratio in [0,1].
	MinSimilarity float64 `hcl:"min_similarity,optional"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DocsDir:        ".",
		PageWordLimit:  doctree.DefaultPageWordLimit,
		MaxSuggestions: suggest.DefaultMaxResults,
		MinSimilarity:  suggest.DefaultMinRatio,
	}
}

// Load reads an HCL config file and fills unset fields with defaults.
// An empty path returns the defaults; a missing file at an explicit
// path is an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return withDefaults(cfg), nil
}

// Decode parses config from an in-memory buffer. The filename only
// labels diagnostics and picks the syntax (.hcl or .json).
func Decode(filename string, src []byte) (Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", filename, err)
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	def := Default()
	if cfg.DocsDir == "" {
		cfg.DocsDir = def.DocsDir
	}
	if cfg.PageWordLimit <= 0 {
		cfg.PageWordLimit = def.PageWordLimit
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = def.MinSimilarity
	}
	return cfg
}

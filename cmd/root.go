package cmd

import (
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/folio/internal/config"
	"github.com/agentic-research/folio/internal/corpus"
	"github.com/agentic-research/folio/internal/resolve"
)

var (
	docsDir    string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&docsDir, "docs", "d", "", "Directory of markdown documents to load")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to HCL config file")
}

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "Folio: selector-addressable markdown for agents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadSetup resolves config file plus flags into a loaded corpus and
// resolver options. The --docs flag wins over the config file's docs_dir.
func loadSetup() (*corpus.Corpus, resolve.Options, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, resolve.Options{}, fmt.Errorf("load config: %w", err)
	}
	dir := cfg.DocsDir
	if docsDir != "" {
		dir = docsDir
	}

	c, err := corpus.Load(osfs.New(dir), ".")
	if err != nil {
		return nil, resolve.Options{}, fmt.Errorf("load corpus from %s: %w", dir, err)
	}
	opts := resolve.Options{
		PageWordLimit:  cfg.PageWordLimit,
		MaxSuggestions: cfg.MaxSuggestions,
		MinSimilarity:  cfg.MinSimilarity,
	}
	return c, opts, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package corpus loads a set of Markdown documents from a filesystem
// and builds one semantic tree per document. Loading goes through
// billy.Filesystem so callers can point it at the OS, a chroot, or an
// in-memory filesystem in tests.
package corpus

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/agentic-research/folio/internal/doctree"
)

// Corpus is an ordered set of namespaced semantic trees. Order is load
// order (lexical by path), which multi-document resolution preserves.
type Corpus struct {
	trees  []*doctree.Tree
	byName map[string]*doctree.Tree
}

// markdown is the shared parser configuration: CommonMark plus the GFM
// extensions, so tables are part of the addressable block set.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Load walks root inside fsys, parses every .md/.markdown file, and
// builds a tree per file. Namespaces derive from file base names;
// collisions get a numeric suffix in load order so rebuilding the same
// corpus always reproduces the same namespaces.
func Load(fsys billy.Filesystem, root string) (*Corpus, error) {
	paths, err := markdownFiles(fsys, root)
	if err != nil {
		return nil, err
	}

	c := &Corpus{byName: make(map[string]*doctree.Tree)}
	for _, p := range paths {
		src, err := util.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		ns := c.uniqueNamespace(namespaceFor(p))
		tree, err := ParseDocument(src, ns)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", p, err)
		}
		c.trees = append(c.trees, tree)
		c.byName[ns] = tree
	}
	return c, nil
}

// ParseDocument parses one Markdown source and builds its semantic tree.
func ParseDocument(src []byte, namespace string) (*doctree.Tree, error) {
	doc := markdown.Parser().Parse(text.NewReader(src))
	return doctree.Build(doc, src, namespace)
}

// Trees returns the loaded trees in load order.
func (c *Corpus) Trees() []*doctree.Tree { return c.trees }

// Tree returns the tree for a namespace.
func (c *Corpus) Tree(namespace string) (*doctree.Tree, bool) {
	t, ok := c.byName[namespace]
	return t, ok
}

// Namespaces returns every namespace in load order.
func (c *Corpus) Namespaces() []string {
	out := make([]string, len(c.trees))
	for i, t := range c.trees {
		out[i] = t.Namespace
	}
	return out
}

// Len reports the number of loaded documents.
func (c *Corpus) Len() int { return len(c.trees) }

// Selectors returns the union of every document's selector corpus, in
// document order.
func (c *Corpus) Selectors() []string {
	var out []string
	for _, t := range c.trees {
		out = append(out, t.Selectors()...)
	}
	return out
}

// markdownFiles walks root recursively and returns matching file paths
// in sorted order. ReadDir order is not guaranteed by every billy
// backend, so entries are sorted explicitly.
func markdownFiles(fsys billy.Filesystem, root string) ([]string, error) {
	var out []string
	var visit func(dir string) error
	visit = func(dir string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			p := path.Join(dir, e.Name())
			if e.IsDir() {
				if err := visit(p); err != nil {
					return err
				}
				continue
			}
			if isMarkdown(e.Name()) {
				out = append(out, p)
			}
		}
		return nil
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	return out, nil
}

func isMarkdown(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// namespaceFor derives a namespace from a file path: the base name
// minus its extension, with characters reserved by the selector grammar
// replaced.
func namespaceFor(p string) string {
	base := path.Base(p)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '?', '&', '=', '[', ']', ' ':
			return '-'
		}
		return r
	}, base)
	if base == "" {
		base = "doc"
	}
	return base
}

func (c *Corpus) uniqueNamespace(ns string) string {
	if _, taken := c.byName[ns]; !taken {
		return ns
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", ns, i)
		if _, taken := c.byName[candidate]; !taken {
			return candidate
		}
	}
}

package corpus

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fsys billy.Filesystem, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
}

func TestLoad_WalksAndOrdersLexically(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "docs/zeta.md", "# Z\n")
	writeFile(t, fsys, "docs/alpha.md", "# A\n\nalpha body text\n")
	writeFile(t, fsys, "docs/nested/middle.markdown", "# M\n")
	writeFile(t, fsys, "docs/ignored.txt", "not markdown")

	c, err := Load(fsys, "docs")
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"alpha", "middle", "zeta"}, c.Namespaces())

	tree, ok := c.Tree("alpha")
	require.True(t, ok)
	assert.Equal(t, 4, tree.WordCount())
}

func TestLoad_NamespaceCollisions(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "docs/a/readme.md", "# First\n")
	writeFile(t, fsys, "docs/b/readme.md", "# Second\n")

	c, err := Load(fsys, "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"readme", "readme-2"}, c.Namespaces())
}

func TestLoad_NamespaceSanitization(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "docs/release notes.md", "# Notes\n")

	c, err := Load(fsys, "docs")
	require.NoError(t, err)
	assert.Equal(t, []string{"release-notes"}, c.Namespaces())
}

func TestLoad_Deterministic(t *testing.T) {
	build := func() *Corpus {
		fsys := memfs.New()
		writeFile(t, fsys, "docs/one.md", "# One\n\nbody text here\n\n## Sub\n\nmore words\n")
		writeFile(t, fsys, "docs/two.md", "# Two\n")
		c, err := Load(fsys, "docs")
		require.NoError(t, err)
		return c
	}

	first := build()
	second := build()
	require.Equal(t, first.Namespaces(), second.Namespaces())
	assert.Equal(t, first.Selectors(), second.Selectors())
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := Load(memfs.New(), "nope")
	require.Error(t, err)
}

func TestParseDocument(t *testing.T) {
	tree, err := ParseDocument([]byte("# Title\n\nbody words here\n"), "doc")
	require.NoError(t, err)
	assert.Equal(t, 4, tree.WordCount())
	_, ok := tree.Lookup("doc::heading:h1[0]")
	assert.True(t, ok)
}

package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/agentic-research/folio/internal/doctree"
	"github.com/agentic-research/folio/internal/selector"
)

func buildTree(t *testing.T, namespace, src string) *doctree.Tree {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))
	tree, err := doctree.Build(doc, source, namespace)
	require.NoError(t, err)
	return tree
}

func resolveOne(t *testing.T, tree *doctree.Tree, query string) Outcome {
	t.Helper()
	sel, err := selector.Parse(query)
	require.NoError(t, err)
	return Single(tree, sel, DefaultOptions())
}

const sampleDoc = `# A

text1 about alpha things

## B

text2 about beta things

` + "```go\npackage main\n```" + `

## C

text3 about gamma things
`

func TestSingle_OrdinalCorrectness(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc)

	out := resolveOne(t, tree, "heading:h2[0]")
	require.True(t, out.OK())
	require.Len(t, out.Results, 1)
	assert.Equal(t, "B", out.Results[0].Node.(*doctree.Heading).Text)

	out = resolveOne(t, tree, "heading:h2[1]")
	require.True(t, out.OK())
	assert.Equal(t, "C", out.Results[0].Node.(*doctree.Heading).Text)

	out = resolveOne(t, tree, "heading:h2[2]")
	require.False(t, out.OK())
	assert.Equal(t, KindIndexOutOfRange, out.Err.Kind)
	assert.Contains(t, out.Err.Message, "0..1")
	assert.Equal(t, 0, out.Err.SegmentIndex)
}

func TestSingle_NoIndexMeansFirstMatch(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc)

	out := resolveOne(t, tree, "heading:h2")
	require.True(t, out.OK())
	assert.Equal(t, "B", out.Results[0].Node.(*doctree.Heading).Text)

	// Untyped heading segment matches any depth; first is A.
	out = resolveOne(t, tree, "heading")
	require.True(t, out.OK())
	assert.Equal(t, "A", out.Results[0].Node.(*doctree.Heading).Text)
}

func TestSingle_BlockUnderHeading(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc)

	out := resolveOne(t, tree, "heading:h2[0]/block:code[0]")
	require.True(t, out.OK())
	res := out.Results[0]
	blk := res.Node.(*doctree.Block)
	assert.Equal(t, doctree.BlockCode, blk.Kind)
	assert.Equal(t, "doc::heading:h2[0]/block:code[0]", res.Selector)
	assert.Equal(t, []string{"doc::root", "doc::heading:h2[0]", res.Selector}, res.Path)
	assert.False(t, res.ChildrenAvailable)
}

func TestSingle_NamespaceMismatch(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc)

	sel, err := selector.Parse("other::heading:h1[0]")
	require.NoError(t, err)
	out := Single(tree, sel, DefaultOptions())
	require.False(t, out.OK())
	assert.Equal(t, KindNamespaceNotFound, out.Err.Kind)
	assert.Equal(t, -1, out.Err.SegmentIndex)
}

func TestSingle_SelectorNotFoundCarriesSuggestions(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc)

	out := resolveOne(t, tree, "doc::heading:h4[0]")
	require.False(t, out.OK())
	assert.Equal(t, KindSelectorNotFound, out.Err.Kind)
	require.NotEmpty(t, out.Err.Suggestions)
	// The near-miss h1/h2 headings should surface as candidates.
	var found bool
	for _, s := range out.Err.Suggestions {
		if strings.Contains(s.Selector, "heading:h2") || strings.Contains(s.Selector, "heading:h1") {
			found = true
		}
	}
	assert.True(t, found, "expected heading suggestions, got %v", out.Err.Suggestions)
}

func TestSingle_RootSegment(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc)

	out := resolveOne(t, tree, "root")
	require.True(t, out.OK())
	assert.Equal(t, doctree.TypeRoot, out.Results[0].Node.Type())
	assert.True(t, out.Results[0].ChildrenAvailable)

	out = resolveOne(t, tree, "root/heading:h1[0]")
	require.True(t, out.OK())
	assert.Equal(t, "A", out.Results[0].Node.(*doctree.Heading).Text)

	out = resolveOne(t, tree, "heading:h1[0]/root")
	require.False(t, out.OK())
	assert.Equal(t, KindInvalidPath, out.Err.Kind)
	assert.Equal(t, 1, out.Err.SegmentIndex)
}

func TestSingle_SectionWalk(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc)

	out := resolveOne(t, tree, "section[0]/section[1]")
	require.True(t, out.OK())
	sec := out.Results[0].Node.(*doctree.Section)
	assert.Equal(t, "C", sec.Heading.Text)

	out = resolveOne(t, tree, "section[1]")
	require.False(t, out.OK())
	assert.Equal(t, KindIndexOutOfRange, out.Err.Kind)
}

func TestSingle_PageSegments(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# Long\n\n")
	for i := 0; i < 6; i++ {
		sb.WriteString("exactly five words per paragraph here\n\n")
	}
	tree := buildTree(t, "doc", sb.String())

	out := resolveOne(t, tree, "section[0]/page[1]?page_size=12")
	require.True(t, out.OK())
	page := out.Results[0].Node.(*doctree.Page)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, "doc::section[0]/page[1]", out.Results[0].Selector)
	assert.LessOrEqual(t, page.WordCount(), 12)

	out = resolveOne(t, tree, "section[0]/page[9]?page_size=12")
	require.False(t, out.OK())
	assert.Equal(t, KindIndexOutOfRange, out.Err.Kind)

	// Pages under a block are an invalid path, not a lookup miss.
	out = resolveOne(t, tree, "section[0]/block:paragraph[0]/page[0]")
	require.False(t, out.OK())
	assert.Equal(t, KindInvalidPath, out.Err.Kind)
	assert.Equal(t, 2, out.Err.SegmentIndex)
}

func TestSingle_EmptyDocument(t *testing.T) {
	tree := buildTree(t, "empty", "")

	out := resolveOne(t, tree, "root")
	require.True(t, out.OK())
	assert.Equal(t, 0, out.Results[0].WordCount)

	out = resolveOne(t, tree, "heading:h1[0]")
	require.False(t, out.OK())
	assert.Equal(t, KindSelectorNotFound, out.Err.Kind)
}

// Every selector the builder indexes must re-parse and resolve back to
// the identical node.
func TestSingle_RoundTripAllSelectors(t *testing.T) {
	tree := buildTree(t, "doc", sampleDoc+"\npreface-free extra tail paragraph\n")

	for _, raw := range tree.Selectors() {
		sel, err := selector.Parse(raw)
		require.NoError(t, err, raw)
		out := Single(tree, sel, DefaultOptions())
		require.True(t, out.OK(), "selector %q failed: %v", raw, out.Err)
		require.Len(t, out.Results, 1, raw)

		want, ok := tree.Lookup(raw)
		require.True(t, ok, raw)
		assert.Same(t, want, out.Results[0].Node, raw)
	}
}

func TestMulti_NamespaceRouting(t *testing.T) {
	trees := []*doctree.Tree{
		buildTree(t, "alpha", "# Install\n\nalpha install text\n"),
		buildTree(t, "beta", "# Usage\n\nbeta usage text\n"),
	}

	sel, err := selector.Parse("beta::heading:h1[0]")
	require.NoError(t, err)
	out := Multi(trees, sel, DefaultOptions())
	require.True(t, out.OK())
	require.Len(t, out.Results, 1)
	assert.Equal(t, "beta", out.Results[0].Namespace)

	sel, err = selector.Parse("betta::heading:h1[0]")
	require.NoError(t, err)
	out = Multi(trees, sel, DefaultOptions())
	require.False(t, out.OK())
	assert.Equal(t, KindNamespaceNotFound, out.Err.Kind)
	require.NotEmpty(t, out.Err.Suggestions)
	assert.Equal(t, "beta", out.Err.Suggestions[0].Selector)
}

func TestMulti_UnionAcrossDocuments(t *testing.T) {
	trees := []*doctree.Tree{
		buildTree(t, "alpha", "# Install\n\nalpha text\n"),
		buildTree(t, "beta", "# Usage\n\n## Flags\n\nbeta text\n"),
	}

	// Present in only one document: exactly one tagged result, no error.
	sel, err := selector.Parse("heading:h2[0]")
	require.NoError(t, err)
	out := Multi(trees, sel, DefaultOptions())
	require.True(t, out.OK())
	require.Len(t, out.Results, 1)
	assert.Equal(t, "beta", out.Results[0].Namespace)

	// Present in both: results concatenate in input document order.
	sel, err = selector.Parse("heading:h1[0]")
	require.NoError(t, err)
	out = Multi(trees, sel, DefaultOptions())
	require.True(t, out.OK())
	require.Len(t, out.Results, 2)
	assert.Equal(t, "alpha", out.Results[0].Namespace)
	assert.Equal(t, "beta", out.Results[1].Namespace)
}

func TestMulti_AllFailMergesCorpora(t *testing.T) {
	trees := []*doctree.Tree{
		buildTree(t, "alpha", "# Install\n"),
		buildTree(t, "beta", "# Usage\n"),
	}

	sel, err := selector.Parse("heading:h3[0]")
	require.NoError(t, err)
	out := Multi(trees, sel, DefaultOptions())
	require.False(t, out.OK())
	assert.Equal(t, KindSelectorNotFound, out.Err.Kind)

	namespaces := map[string]bool{}
	for _, s := range out.Err.Suggestions {
		switch {
		case strings.HasPrefix(s.Selector, "alpha::"):
			namespaces[s.Selector[:5]] = true
		case strings.HasPrefix(s.Selector, "beta::"):
			namespaces[s.Selector[:4]] = true
		}
	}
	assert.True(t, namespaces["alpha"] || namespaces["beta"],
		"expected merged-corpus suggestions, got %v", out.Err.Suggestions)
}

func TestMulti_NoTrees(t *testing.T) {
	sel, err := selector.Parse("heading:h1")
	require.NoError(t, err)
	out := Multi(nil, sel, DefaultOptions())
	require.False(t, out.OK())
	assert.Equal(t, KindSelectorNotFound, out.Err.Kind)
}

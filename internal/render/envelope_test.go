package render

import (
	"encoding/json"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/folio/internal/corpus"
	"github.com/agentic-research/folio/internal/resolve"
)

func loadCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "docs/guide.md",
		[]byte("# Install\n\nrun the installer now\n\n## Flags\n\nflag words here\n\nmore flag words\n"), 0o644))
	require.NoError(t, util.WriteFile(fsys, "docs/faq.md",
		[]byte("# Questions\n\nanswer text body\n"), 0o644))
	c, err := corpus.Load(fsys, "docs")
	require.NoError(t, err)
	return c
}

func TestResolve_PartialSuccess(t *testing.T) {
	c := loadCorpus(t)
	env := Resolve(c, resolve.DefaultOptions(), []string{
		"guide::heading:h1[0]",
		"guide::heading:h9[0]", // syntax error: h9 is not a heading level
		"guide::heading:h3[0]", // resolution failure
	})

	assert.True(t, env.Success)
	require.Len(t, env.Results, 1)
	require.Len(t, env.Failures, 2)

	res := env.Results[0]
	assert.Equal(t, "guide::heading:h1[0]", res.Selector)
	assert.Equal(t, "guide", res.Namespace)
	assert.Equal(t, "heading", res.Type)
	assert.Contains(t, res.Content, "# Install")

	assert.Equal(t, SyntaxErrorKind, env.Failures[0].Kind)
	assert.Equal(t, "selector_not_found", env.Failures[1].Kind)
	assert.NotEmpty(t, env.Failures[1].Suggestions)
}

func TestResolve_AllFailed(t *testing.T) {
	c := loadCorpus(t)
	env := Resolve(c, resolve.DefaultOptions(), []string{"]broken["})
	assert.False(t, env.Success)
	assert.Empty(t, env.Results)
	require.Len(t, env.Failures, 1)
}

func TestResolve_MultiDocumentUnion(t *testing.T) {
	c := loadCorpus(t)
	env := Resolve(c, resolve.DefaultOptions(), []string{"heading:h1[0]"})

	require.True(t, env.Success)
	require.Len(t, env.Results, 2)
	// Corpus load order (lexical): faq before guide.
	assert.Equal(t, "faq", env.Results[0].Namespace)
	assert.Equal(t, "guide", env.Results[1].Namespace)
}

func TestResolve_FullFalseOmitsContent(t *testing.T) {
	c := loadCorpus(t)
	env := Resolve(c, resolve.DefaultOptions(), []string{"guide::heading:h1[0]?full=false"})
	require.Len(t, env.Results, 1)
	assert.Empty(t, env.Results[0].Content)
	assert.Equal(t, 1, env.Results[0].WordCount)
}

func TestResolve_PaginationMetadata(t *testing.T) {
	c := loadCorpus(t)
	env := Resolve(c, resolve.DefaultOptions(), []string{"guide::heading:h2[0]?page_size=3"})

	require.Len(t, env.Results, 1)
	meta := env.Results[0].Pagination
	require.NotNil(t, meta)
	assert.Equal(t, -1, meta.Page)
	assert.Equal(t, 3, meta.WordLimit)
	assert.Equal(t, 2, meta.TotalPages)

	env = Resolve(c, resolve.DefaultOptions(), []string{"guide::heading:h2[0]/page[1]?page_size=3"})
	require.Len(t, env.Results, 1)
	meta = env.Results[0].Pagination
	require.NotNil(t, meta)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestJSON_RoundTripsThroughStdlib(t *testing.T) {
	c := loadCorpus(t)
	env := Resolve(c, resolve.DefaultOptions(), []string{
		"guide::heading:h2[0]",
		"guide::heading:h2[7]",
	})

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(env)), &decoded))
	assert.Equal(t, true, decoded["success"])
	results, ok := decoded["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "guide::heading:h2[0]", first["selector"])
	assert.Contains(t, decoded, "failures")
}

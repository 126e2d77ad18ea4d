// Package render turns resolution outcomes into the JSON response
// envelope consumed by the CLI and the MCP server.
package render

import (
	"strconv"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/folio/api"
	"github.com/agentic-research/folio/internal/corpus"
	"github.com/agentic-research/folio/internal/doctree"
	"github.com/agentic-research/folio/internal/resolve"
	"github.com/agentic-research/folio/internal/selector"
)

// SyntaxErrorKind labels failures caught before resolution, at parse
// time. Resolution failure kinds come from the resolver itself.
const SyntaxErrorKind = "syntax_error"

// Resolve parses and resolves every query against the corpus and builds
// one envelope. A syntax error or resolution failure on one query never
// aborts the rest: the envelope reports partial success.
func Resolve(c *corpus.Corpus, opts resolve.Options, queries []string) api.Envelope {
	var env api.Envelope
	for _, raw := range queries {
		sel, err := selector.Parse(raw)
		if err != nil {
			env.Failures = append(env.Failures, api.Failure{
				Query:          raw,
				Kind:           SyntaxErrorKind,
				Message:        err.Error(),
				FailingSegment: -1,
			})
			continue
		}

		out := resolve.Multi(c.Trees(), sel, opts)
		if !out.OK() {
			env.Failures = append(env.Failures, api.Failure{
				Query:          raw,
				Kind:           string(out.Err.Kind),
				Message:        out.Err.Message,
				FailingSegment: out.Err.SegmentIndex,
				Suggestions:    out.Err.Suggestions,
			})
			continue
		}
		for _, res := range out.Results {
			env.Results = append(env.Results, resultView(c, raw, sel, res, opts))
		}
	}
	env.Success = len(env.Results) > 0
	return env
}

func resultView(c *corpus.Corpus, raw string, sel *selector.Selector, res resolve.Result, opts resolve.Options) api.Result {
	view := api.Result{
		Query:             raw,
		Selector:          res.Selector,
		Namespace:         res.Namespace,
		Type:              string(res.Node.Type()),
		WordCount:         res.WordCount,
		Path:              res.Path,
		ChildrenAvailable: res.ChildrenAvailable,
	}

	limit := effectiveLimit(sel, opts)
	tree, ok := c.Tree(res.Namespace)
	if ok && sel.Param("full", "true") != "false" {
		view.Content = string(tree.Content(res.Node))
	}

	switch n := res.Node.(type) {
	case *doctree.Page:
		if ok {
			if container, found := tree.Lookup(n.Parent()); found {
				view.Pagination = &api.PageMeta{
					Page:       n.Number,
					TotalPages: len(doctree.Paginate(container, limit)),
					WordLimit:  limit,
				}
			}
		}
	case *doctree.Root, *doctree.Heading, *doctree.Section:
		if pages := doctree.Paginate(res.Node, limit); len(pages) > 1 {
			view.Pagination = &api.PageMeta{
				Page:       -1,
				TotalPages: len(pages),
				WordLimit:  limit,
			}
		}
	}
	return view
}

// effectiveLimit mirrors the resolver's page_size handling so reported
// pagination metadata matches the boundaries resolution would produce.
func effectiveLimit(sel *selector.Selector, opts resolve.Options) int {
	if raw := sel.Param("page_size", ""); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return opts.PageWordLimit
}

// JSON encodes an envelope as indented JSON.
func JSON(env api.Envelope) string {
	return oj.JSON(env, &ojg.Options{Indent: 2, UseTags: true, OmitNil: true})
}

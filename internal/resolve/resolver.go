package resolve

import (
	"fmt"

	"github.com/agentic-research/folio/internal/doctree"
	"github.com/agentic-research/folio/internal/selector"
	"github.com/agentic-research/folio/internal/suggest"
)

// Single resolves a selector against one semantic tree. A namespace on
// the selector must match the tree's namespace exactly; segments are
// then walked left to right from the root, each narrowing to the
// children matching its (type, subtype) pair and picking by ordinal
// index (first match when no index is given).
func Single(tree *doctree.Tree, sel *selector.Selector, opts Options) Outcome {
	if sel.Namespace != "" && sel.Namespace != tree.Namespace {
		return failure(&Error{
			Kind:         KindNamespaceNotFound,
			Message:      fmt.Sprintf("namespace %q not found (document is %q)", sel.Namespace, tree.Namespace),
			SegmentIndex: -1,
			Suggestions:  suggest.Rank(sel.Namespace, []string{tree.Namespace}, opts.MaxSuggestions, opts.MinSimilarity),
		})
	}
	return walk(tree, sel, opts)
}

// Multi resolves a selector against an ordered set of trees. With a
// namespace, resolution delegates to the matching tree. Without one,
// every tree is consulted; successes are concatenated in input order and
// the call only fails when every tree failed, with suggestions drawn
// from the merged selector corpus of all trees.
func Multi(trees []*doctree.Tree, sel *selector.Selector, opts Options) Outcome {
	if sel.Namespace != "" {
		for _, t := range trees {
			if t.Namespace == sel.Namespace {
				return Single(t, sel, opts)
			}
		}
		known := make([]string, len(trees))
		for i, t := range trees {
			known[i] = t.Namespace
		}
		return failure(&Error{
			Kind:         KindNamespaceNotFound,
			Message:      fmt.Sprintf("namespace %q matches no loaded document", sel.Namespace),
			SegmentIndex: -1,
			Suggestions:  suggest.Rank(sel.Namespace, known, opts.MaxSuggestions, opts.MinSimilarity),
		})
	}

	var merged []Result
	var firstErr *Error
	for _, t := range trees {
		out := Single(t, sel, opts)
		if out.OK() {
			merged = append(merged, out.Results...)
			continue
		}
		if firstErr == nil {
			firstErr = out.Err
		}
	}
	if len(merged) > 0 {
		return success(merged...)
	}
	if firstErr == nil {
		return failure(&Error{
			Kind:         KindSelectorNotFound,
			Message:      "no documents loaded",
			SegmentIndex: -1,
		})
	}

	// Every tree failed: re-rank suggestions over the union corpus so
	// the caller sees candidates from all documents.
	var corpus []string
	for _, t := range trees {
		corpus = append(corpus, t.Selectors()...)
	}
	return failure(&Error{
		Kind:         firstErr.Kind,
		Message:      firstErr.Message,
		SegmentIndex: firstErr.SegmentIndex,
		Suggestions:  suggest.Rank(sel.String(), corpus, opts.MaxSuggestions, opts.MinSimilarity),
	})
}

// walk steps through the selector's segments starting at the tree root.
func walk(tree *doctree.Tree, sel *selector.Selector, opts Options) Outcome {
	var current doctree.Node = tree.Root()

	for i, seg := range sel.Segments {
		switch seg.Type {
		case selector.TypeRoot:
			if i != 0 {
				return failure(&Error{
					Kind:         KindInvalidPath,
					Message:      "root segment is only valid at the start of a path",
					SegmentIndex: i,
				})
			}
			continue

		case selector.TypePage:
			if !paginatable(current) {
				return failure(&Error{
					Kind:         KindInvalidPath,
					Message:      fmt.Sprintf("%s nodes cannot be paginated", current.Type()),
					SegmentIndex: i,
				})
			}
			pages := doctree.Paginate(current, pageLimit(sel, opts))
			node, errOut := pick(tree, sel, pagesAsNodes(pages), seg, i, opts)
			if errOut != nil {
				return failure(errOut)
			}
			current = node

		default:
			matches := childrenMatching(current, seg)
			node, errOut := pick(tree, sel, matches, seg, i, opts)
			if errOut != nil {
				return failure(errOut)
			}
			current = node
		}
	}

	return success(Result{
		Namespace:         tree.Namespace,
		Node:              current,
		Selector:          current.Selector(),
		Path:              ancestorPath(tree, current),
		WordCount:         current.WordCount(),
		ChildrenAvailable: len(current.Children()) > 0,
	})
}

// pick applies the segment's ordinal index to the match set, producing
// SelectorNotFound for an empty set and IndexOutOfRange for an index
// beyond it.
func pick(tree *doctree.Tree, sel *selector.Selector, matches []doctree.Node, seg selector.Segment, segIdx int, opts Options) (doctree.Node, *Error) {
	if len(matches) == 0 {
		return nil, &Error{
			Kind:         KindSelectorNotFound,
			Message:      fmt.Sprintf("no %s matches segment %q", seg.Type, seg.String()),
			SegmentIndex: segIdx,
			Suggestions:  suggest.Rank(sel.String(), tree.Selectors(), opts.MaxSuggestions, opts.MinSimilarity),
		}
	}
	idx := 0
	if seg.HasIndex {
		if seg.Index >= len(matches) {
			return nil, &Error{
				Kind:         KindIndexOutOfRange,
				Message:      fmt.Sprintf("index %d out of range for segment %q: valid range is 0..%d", seg.Index, seg.String(), len(matches)-1),
				SegmentIndex: segIdx,
				Suggestions:  suggest.Rank(sel.String(), tree.Selectors(), opts.MaxSuggestions, opts.MinSimilarity),
			}
		}
		idx = seg.Index
	}
	return matches[idx], nil
}

// childrenMatching filters the current node's child set by the
// segment's (type, subtype) pair. An empty subtype matches any subtype
// of the type; ordinals are positions within the filtered set, never
// among all siblings.
func childrenMatching(current doctree.Node, seg selector.Segment) []doctree.Node {
	var out []doctree.Node
	for _, child := range current.Children() {
		if matches(child, seg) {
			out = append(out, child)
		}
	}
	return out
}

func matches(n doctree.Node, seg selector.Segment) bool {
	switch v := n.(type) {
	case *doctree.Heading:
		if seg.Type != selector.TypeHeading {
			return false
		}
		return seg.Subtype == "" || seg.Subtype == fmt.Sprintf("h%d", v.Depth)
	case *doctree.Section:
		return seg.Type == selector.TypeSection
	case *doctree.Block:
		if seg.Type != selector.TypeBlock {
			return false
		}
		return seg.Subtype == "" || seg.Subtype == string(v.Kind)
	case *doctree.Root, *doctree.Page:
		// Roots are never children; pages are reached via Paginate.
		return false
	}
	return false
}

// ancestorPath rebuilds the chain of selectors from the root down to n
// by following parent back-references through the node index.
func ancestorPath(tree *doctree.Tree, n doctree.Node) []string {
	var rev []string
	rev = append(rev, n.Selector())
	parent := n.Parent()
	for parent != "" {
		rev = append(rev, parent)
		node, ok := tree.Lookup(parent)
		if !ok {
			break
		}
		parent = node.Parent()
	}
	path := make([]string, len(rev))
	for i, sel := range rev {
		path[len(rev)-1-i] = sel
	}
	return path
}

// paginatable reports whether page segments are legal under n: the
// root, a heading, or a section.
func paginatable(n doctree.Node) bool {
	switch n.(type) {
	case *doctree.Root, *doctree.Heading, *doctree.Section:
		return true
	}
	return false
}

// pageLimit honors a page_size query parameter when present and sane.
func pageLimit(sel *selector.Selector, opts Options) int {
	if raw := sel.Param("page_size", ""); raw != "" {
		n := 0
		if _, err := fmt.Sscanf(raw, "%d", &n); err == nil && n > 0 {
			return n
		}
	}
	return opts.PageWordLimit
}

func pagesAsNodes(pages []*doctree.Page) []doctree.Node {
	out := make([]doctree.Node, len(pages))
	for i, p := range pages {
		out[i] = p
	}
	return out
}

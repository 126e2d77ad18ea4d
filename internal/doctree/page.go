package doctree

import (
	"fmt"
	"strings"
)

// DefaultPageWordLimit is the word-count ceiling above which a
// container's flat content is split into multiple pages.
const DefaultPageWordLimit = 500

// Paginate splits a container's ordered flat content into Page nodes on
// a word ceiling. Splits never land inside a block: a block larger than
// the ceiling occupies a page of its own. Containers are the root
// (preface content), a heading, or a section; any other node yields nil.
// Pages are ephemeral — recomputing with the same limit reproduces
// identical boundaries, but pages are never added to the tree index.
func Paginate(container Node, limit int) []*Page {
	if limit <= 0 {
		limit = DefaultPageWordLimit
	}

	var blocks []*Block
	switch c := container.(type) {
	case *Root:
		blocks = c.Preface
	case *Heading:
		blocks = c.section.Blocks
	case *Section:
		blocks = c.Blocks
	default:
		return nil
	}
	if len(blocks) == 0 {
		return nil
	}

	prefix := pageSelectorPrefix(container)
	var pages []*Page
	var cur []*Block
	words := 0
	flush := func() {
		if len(cur) == 0 {
			return
		}
		n := len(pages)
		pages = append(pages, &Page{
			base: base{
				selector: fmt.Sprintf("%spage[%d]", prefix, n),
				parent:   container.Selector(),
				words:    words,
				span:     Span{Start: cur[0].Span().Start, End: cur[len(cur)-1].Span().End},
				children: blockChildren(cur),
			},
			Number: n,
			Blocks: cur,
		})
		cur = nil
		words = 0
	}

	for _, blk := range blocks {
		if len(cur) > 0 && words+blk.WordCount() > limit {
			flush()
		}
		cur = append(cur, blk)
		words += blk.WordCount()
	}
	flush()
	return pages
}

// pageSelectorPrefix yields the canonical chain prefix for page nodes:
// the container selector plus '/', except for the root, whose pages
// chain directly off the namespace.
func pageSelectorPrefix(container Node) string {
	sel := container.Selector()
	if _, ok := container.(*Root); ok {
		return strings.TrimSuffix(sel, "root")
	}
	return sel + "/"
}

func blockChildren(blocks []*Block) []Node {
	out := make([]Node, len(blocks))
	for i, b := range blocks {
		out[i] = b
	}
	return out
}

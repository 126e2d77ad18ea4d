package doctree

import (
	"fmt"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Build consumes a parsed goldmark document plus its source bytes and
// produces the semantic tree for the given namespace. The input tree is
// never mutated; rebuilding from structurally identical input yields
// byte-identical selectors and word counts.
//
// Two passes: the first walks the document in order, maintaining an
// explicit stack of open sections (popped while the top's depth is >=
// the incoming heading's depth); the second assigns ordinal indices and
// selector strings per (parent, type, subtype) group and propagates word
// counts upward.
func Build(doc gast.Node, source []byte, namespace string) (*Tree, error) {
	if namespace == "" {
		return nil, fmt.Errorf("doctree: empty namespace")
	}
	if strings.ContainsAny(namespace, ":/?&=[] ") {
		return nil, fmt.Errorf("doctree: namespace %q contains reserved characters", namespace)
	}

	b := &builder{tree: newTree(namespace, source)}
	if doc != nil {
		b.scan(doc, source)
	}
	b.index()
	return b.tree, nil
}

type builder struct {
	tree *Tree

	preface  []*Block
	top      []*sectionRec
	stack    []*sectionRec
	headings []*sectionRec // document order
}

// sectionRec is the mutable skeleton of one heading plus its section,
// linked during the scan pass and frozen during indexing.
type sectionRec struct {
	heading  *Heading
	section  *Section
	blocks   []*Block
	children []*sectionRec
	depth    int
}

// scan is the heading/section pass: document-order traversal with an
// explicit open-section stack.
func (b *builder) scan(doc gast.Node, src []byte) {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*gast.Heading); ok {
			b.openSection(h, src)
			continue
		}
		blk := classifyBlock(n, src)
		if blk == nil {
			continue // thematic breaks, raw HTML: not addressable
		}
		if len(b.stack) > 0 {
			top := b.stack[len(b.stack)-1]
			top.blocks = append(top.blocks, blk)
		} else {
			b.preface = append(b.preface, blk)
		}
	}
}

// openSection closes every open section whose scope the new heading
// terminates (depth >= incoming depth), then pushes a fresh one.
func (b *builder) openSection(h *gast.Heading, src []byte) {
	text := normalizeText(extractText(h, src))
	rec := &sectionRec{
		depth: h.Level,
		heading: &Heading{
			base:  base{words: countWords(text), span: spanOf(h, src), src: h},
			Depth: h.Level,
			Text:  text,
		},
	}
	rec.section = &Section{
		base:    base{span: rec.heading.Span()},
		Heading: rec.heading,
		Depth:   h.Level,
	}
	rec.heading.section = rec.section

	for len(b.stack) > 0 && b.stack[len(b.stack)-1].depth >= h.Level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		parent.children = append(parent.children, rec)
	} else {
		b.top = append(b.top, rec)
	}
	b.stack = append(b.stack, rec)
	b.headings = append(b.headings, rec)
}

// classifyBlock maps a goldmark block node onto a Block variant, or nil
// for node types outside the addressable set.
func classifyBlock(n gast.Node, src []byte) *Block {
	blk := &Block{base: base{span: spanOf(n, src), src: n}}
	switch v := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		blk.Kind = BlockParagraph
	case *gast.FencedCodeBlock:
		blk.Kind = BlockCode
		if v.Info != nil {
			blk.Lang = string(v.Info.Value(src))
		}
	case *gast.CodeBlock:
		blk.Kind = BlockCode
	case *gast.List:
		blk.Kind = BlockList
		blk.Ordered = v.IsOrdered()
	case *east.Table:
		blk.Kind = BlockTable
	case *gast.Blockquote:
		blk.Kind = BlockBlockquote
	default:
		return nil
	}
	blk.words = countWords(extractText(n, src))
	return blk
}

// index is the indexing/word-count pass: every (parent, type, subtype)
// group gets 0-based ordinals in document order, selectors are derived
// from the ancestor chain, and word counts aggregate upward.
func (b *builder) index() {
	ns := b.tree.Namespace
	root := &Root{base: base{
		selector: ns + "::root",
		span:     Span{Start: 0, End: len(b.tree.Source)},
	}}
	b.tree.root = root
	b.tree.register(root)

	// Preface blocks chain directly off the namespace and belong to the
	// root, never to a section.
	prefaceWords := 0
	kindCounts := map[BlockKind]int{}
	for _, blk := range b.preface {
		i := kindCounts[blk.Kind]
		kindCounts[blk.Kind]++
		blk.Index = i
		blk.selector = fmt.Sprintf("%s::block:%s[%d]", ns, blk.Kind, i)
		blk.parent = root.selector
		prefaceWords += blk.words
		b.tree.register(blk)
	}
	root.Preface = b.preface

	// Heading ordinals are per-depth and document-wide: every heading is
	// a sibling of every other heading under the root.
	var depthCounts [7]int
	for _, rec := range b.headings {
		i := depthCounts[rec.depth]
		depthCounts[rec.depth]++
		rec.heading.Index = i
		rec.heading.selector = fmt.Sprintf("%s::heading:h%d[%d]", ns, rec.depth, i)
		rec.heading.parent = root.selector
	}

	total := prefaceWords
	for i, rec := range b.top {
		b.indexSection(rec, nil, i)
		root.Sections = append(root.Sections, rec.section)
		total += rec.section.TotalWords
	}
	root.words = total

	for _, rec := range b.headings {
		root.Headings = append(root.Headings, rec.heading)
	}

	// Child sets for resolution. Root sees its preface, every heading,
	// and the top-level sections.
	for _, blk := range root.Preface {
		root.children = append(root.children, blk)
	}
	for _, h := range root.Headings {
		root.children = append(root.children, h)
	}
	for _, s := range root.Sections {
		root.children = append(root.children, s)
	}
}

// indexSection freezes one section skeleton: assigns the section and
// block selectors, registers nodes in document order, recurses into
// child sections, and computes the aggregate word count.
func (b *builder) indexSection(rec *sectionRec, parent *sectionRec, ordinal int) {
	ns := b.tree.Namespace
	sec := rec.section
	sec.Index = ordinal
	if parent == nil {
		sec.selector = fmt.Sprintf("%s::section[%d]", ns, ordinal)
		sec.parent = ns + "::root"
	} else {
		sec.selector = fmt.Sprintf("%s/section[%d]", parent.section.selector, ordinal)
		sec.parent = parent.section.selector
	}

	b.tree.register(rec.heading)
	b.tree.register(sec)

	words := rec.heading.WordCount()
	kindCounts := map[BlockKind]int{}
	for _, blk := range rec.blocks {
		i := kindCounts[blk.Kind]
		kindCounts[blk.Kind]++
		blk.Index = i
		blk.selector = fmt.Sprintf("%s/block:%s[%d]", rec.heading.selector, blk.Kind, i)
		blk.parent = rec.heading.selector
		words += blk.words
		b.tree.register(blk)
	}
	sec.Blocks = rec.blocks
	sec.words = words

	total := words
	for i, child := range rec.children {
		b.indexSection(child, rec, i)
		sec.Sections = append(sec.Sections, child.section)
		total += child.section.TotalWords
	}
	sec.TotalWords = total

	// Section scope runs from its heading up to, but excluding, the next
	// heading of equal or lesser depth.
	end := rec.heading.Span().End
	for _, blk := range sec.Blocks {
		if blk.Span().End > end {
			end = blk.Span().End
		}
	}
	for _, child := range sec.Sections {
		if child.Span().End > end {
			end = child.Span().End
		}
	}
	sec.span = Span{Start: rec.heading.Span().Start, End: end}

	// Heading and section share one child set: the flat blocks, then the
	// nested sections, then the nested sections' headings.
	var children []Node
	for _, blk := range sec.Blocks {
		children = append(children, blk)
	}
	for _, child := range sec.Sections {
		children = append(children, child)
	}
	for _, child := range sec.Sections {
		children = append(children, child.Heading)
	}
	sec.children = children
	rec.heading.children = children
}

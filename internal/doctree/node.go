// Package doctree builds a navigable semantic tree from a goldmark
// Markdown AST. Every node carries a deterministic selector string, a
// word count, and a byte span into the original source. Sections and
// pages are virtual: they are synthesized by the builder and have no
// counterpart in the input syntax tree.
package doctree

import (
	gast "github.com/yuin/goldmark/ast"
)

// NodeType discriminates the closed set of semantic node kinds.
type NodeType string

const (
	TypeRoot    NodeType = "root"
	TypeHeading NodeType = "heading"
	TypeSection NodeType = "section"
	TypePage    NodeType = "page"
	TypeBlock   NodeType = "block"
)

// BlockKind is the subtype of a Block node.
type BlockKind string

const (
	BlockParagraph  BlockKind = "paragraph"
	BlockCode       BlockKind = "code"
	BlockList       BlockKind = "list"
	BlockTable      BlockKind = "table"
	BlockBlockquote BlockKind = "blockquote"
)

// Span is a half-open byte range [Start, End) into the document source.
type Span struct {
	Start int
	End   int
}

// Node is the closed union of semantic node variants. The concrete types
// are *Root, *Heading, *Section, *Page, and *Block; sealing via the
// unexported method forces consumers into exhaustive type switches.
type Node interface {
	// Selector is the node's unique, order-stable address within its
	// document, e.g. "docs::heading:h2[1]/block:code[0]".
	Selector() string
	// Parent is the selector of the owning node ("" for the root). It is
	// a lookup key into the tree's node index, not an owning reference.
	Parent() string
	Type() NodeType
	// WordCount is the node's own word total. Sections additionally
	// expose an aggregated TotalWords.
	WordCount() int
	Span() Span
	// Children returns the ordered child set used by selector
	// resolution. It may be empty but never contains nil entries.
	Children() []Node
	// Source is the originating goldmark node, nil for virtual nodes.
	Source() gast.Node

	sealed()
}

// base carries the shape shared by every node variant.
type base struct {
	selector string
	parent   string
	words    int
	span     Span
	src      gast.Node
	children []Node
}

func (b *base) Selector() string  { return b.selector }
func (b *base) Parent() string    { return b.parent }
func (b *base) WordCount() int    { return b.words }
func (b *base) Span() Span        { return b.span }
func (b *base) Children() []Node  { return b.children }
func (b *base) Source() gast.Node { return b.src }
func (b *base) sealed()           {}

// Root is the document node. Its word count is the total for the whole
// document: preface content plus every section's aggregate.
type Root struct {
	base

	// Preface holds content appearing before the first heading. It never
	// belongs to a section.
	Preface []*Block
	// Headings lists every heading in document order. All headings are
	// siblings of one another under the root, mirroring the flat input
	// tree, so per-depth ordinals are document-wide.
	Headings []*Heading
	// Sections lists the synthesized top-level sections.
	Sections []*Section
}

func (*Root) Type() NodeType { return TypeRoot }

// Heading is a heading node. Index is the 0-based ordinal among headings
// of the same depth across the document.
type Heading struct {
	base

	Depth int
	Text  string
	Index int

	// section is the virtual section this heading opens.
	section *Section
}

func (*Heading) Type() NodeType { return TypeHeading }

// OwnSection returns the virtual section opened by this heading.
func (h *Heading) OwnSection() *Section { return h.section }

// Section is a virtual node grouping a heading with all content up to,
// but excluding, the next heading of equal or lesser depth.
type Section struct {
	base

	Heading *Heading
	// Blocks is the flat content owned directly by this section,
	// excluding anything owned by nested sub-sections.
	Blocks []*Block
	// Sections are the nested child sections.
	Sections []*Section
	Depth    int
	// Index is the 0-based ordinal among sibling sections.
	Index int
	// TotalWords aggregates this section's own content plus every
	// descendant section.
	TotalWords int
}

func (*Section) Type() NodeType { return TypeSection }

// Block is a leaf content node. Index is the 0-based ordinal among
// same-kind blocks within the immediate section (or the root preface).
type Block struct {
	base

	Kind  BlockKind
	Index int

	// Lang is the info string of a fenced code block, empty otherwise.
	Lang string
	// Ordered reports whether a list block is ordered.
	Ordered bool
}

func (*Block) Type() NodeType { return TypeBlock }

// Page is a virtual node produced by Paginate. Pages are computed on
// demand from a container's ordered content and are not registered in
// the tree's node index.
type Page struct {
	base

	// Number is the 0-based page ordinal within the container.
	Number int
	// Blocks is the run of content blocks covered by this page.
	Blocks []*Block
}

func (*Page) Type() NodeType { return TypePage }

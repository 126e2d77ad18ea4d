package doctree

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// Tree is an immutable semantic tree for one document. All lookup maps
// are built once during construction; resolution is map probes plus a
// bounded ordinal filter, never a re-walk of the syntax tree.
type Tree struct {
	Namespace string
	Source    []byte

	root *Root

	// nodes is the flat selector → node index (the arena). headings and
	// sections are narrowed views of the same nodes.
	nodes    map[string]Node
	headings map[string]*Heading
	sections map[string]*Section

	// order records selectors in registration (document) order; the
	// position of a selector in order is its arena ID.
	order []string
	// kinds maps a kind key ("heading:h2", "block:code", "section") to
	// the bitmap of arena IDs carrying that kind. Bitmap iteration is
	// ascending, so kind scans preserve document order.
	kinds map[string]*roaring.Bitmap
	ids   map[string]uint32
}

func newTree(namespace string, source []byte) *Tree {
	return &Tree{
		Namespace: namespace,
		Source:    source,
		nodes:     make(map[string]Node),
		headings:  make(map[string]*Heading),
		sections:  make(map[string]*Section),
		kinds:     make(map[string]*roaring.Bitmap),
		ids:       make(map[string]uint32),
	}
}

// register adds a node to the arena and the kind bitmaps. Selectors are
// unique by construction; a duplicate indicates a builder bug.
func (t *Tree) register(n Node) {
	sel := n.Selector()
	if _, exists := t.nodes[sel]; exists {
		panic(fmt.Sprintf("doctree: duplicate selector %q", sel))
	}
	id := uint32(len(t.order))
	t.nodes[sel] = n
	t.ids[sel] = id
	t.order = append(t.order, sel)

	key := kindKey(n)
	bm, ok := t.kinds[key]
	if !ok {
		bm = roaring.New()
		t.kinds[key] = bm
	}
	bm.Add(id)

	switch v := n.(type) {
	case *Heading:
		t.headings[sel] = v
	case *Section:
		t.sections[sel] = v
	}
}

func kindKey(n Node) string {
	switch v := n.(type) {
	case *Root:
		return "root"
	case *Heading:
		return fmt.Sprintf("heading:h%d", v.Depth)
	case *Section:
		return "section"
	case *Block:
		return "block:" + string(v.Kind)
	case *Page:
		return "page"
	}
	return "unknown"
}

// Root returns the document root node.
func (t *Tree) Root() *Root { return t.root }

// Lookup resolves a selector string to its node.
func (t *Tree) Lookup(sel string) (Node, bool) {
	n, ok := t.nodes[sel]
	return n, ok
}

// Heading resolves a selector to a heading node.
func (t *Tree) Heading(sel string) (*Heading, bool) {
	h, ok := t.headings[sel]
	return h, ok
}

// Section resolves a selector to a section node.
func (t *Tree) Section(sel string) (*Section, bool) {
	s, ok := t.sections[sel]
	return s, ok
}

// Selectors returns every registered selector in document order. The
// returned slice is a copy; callers may keep it.
func (t *Tree) Selectors() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// NodesOfKind returns the nodes carrying the given kind key (e.g.
// "heading:h2", "block:code", "section") in document order.
func (t *Tree) NodesOfKind(key string) []Node {
	bm, ok := t.kinds[key]
	if !ok {
		return nil
	}
	out := make([]Node, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, t.nodes[t.order[it.Next()]])
	}
	return out
}

// Len reports the number of registered nodes.
func (t *Tree) Len() int { return len(t.order) }

// WordCount is the total word count of the document.
func (t *Tree) WordCount() int {
	return t.root.WordCount()
}

// Content re-serializes a node's subtree by slicing the original source
// through the node's byte span. Works for virtual nodes too: section and
// page spans are contiguous by construction.
func (t *Tree) Content(n Node) []byte {
	sp := n.Span()
	if sp.Start < 0 || sp.End > len(t.Source) || sp.Start > sp.End {
		return nil
	}
	return t.Source[sp.Start:sp.End]
}

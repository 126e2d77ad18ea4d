// Package selector lexes and parses selector strings of the form
//
//	[namespace::]segment(/segment)*[?key=value(&key=value)*]
//
// where each segment is nodeType[:subtype][[index]]. Parsing is pure and
// deterministic: the same input always produces a structurally identical
// Selector. The package has no dependency on any document tree.
package selector

import (
	"fmt"
	"sort"
	"strings"
)

// NodeType is the addressable node kind named by a path segment.
type NodeType string

const (
	TypeRoot    NodeType = "root"
	TypeHeading NodeType = "heading"
	TypeSection NodeType = "section"
	TypePage    NodeType = "page"
	TypeBlock   NodeType = "block"
)

// blockSubtypes is the closed set of block kinds addressable via block:<kind>.
var blockSubtypes = map[string]bool{
	"paragraph":  true,
	"code":       true,
	"list":       true,
	"table":      true,
	"blockquote": true,
}

// Segment is one /-separated step of a selector path.
// Index is 0-based among siblings sharing the same (Type, Subtype) pair;
// HasIndex false means "first match".
type Segment struct {
	Type     NodeType
	Subtype  string // "h1".."h6" for headings, block kind for blocks, else empty
	Index    int
	HasIndex bool
}

// String renders the segment in wire form, e.g. "heading:h2[1]".
func (s Segment) String() string {
	var b strings.Builder
	b.WriteString(string(s.Type))
	if s.Subtype != "" {
		b.WriteByte(':')
		b.WriteString(s.Subtype)
	}
	if s.HasIndex {
		fmt.Fprintf(&b, "[%d]", s.Index)
	}
	return b.String()
}

// Selector is the parsed form of a selector string.
// An empty Namespace means "search across every available document".
type Selector struct {
	Namespace string
	Segments  []Segment
	Params    map[string]string
}

// Param returns the query parameter for key, or def when absent.
func (s *Selector) Param(key, def string) string {
	if v, ok := s.Params[key]; ok {
		return v
	}
	return def
}

// String renders the selector back into canonical wire form. Query
// parameters are emitted in sorted key order so the output is stable.
func (s *Selector) String() string {
	var b strings.Builder
	if s.Namespace != "" {
		b.WriteString(s.Namespace)
		b.WriteString("::")
	}
	for i, seg := range s.Segments {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(seg.String())
	}
	if len(s.Params) > 0 {
		keys := make([]string, 0, len(s.Params))
		for k := range s.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i == 0 {
				b.WriteByte('?')
			} else {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(s.Params[k])
		}
	}
	return b.String()
}

// SyntaxError reports a malformed selector string. Pos is a byte offset
// into the input.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("selector syntax error at offset %d: %s", e.Pos, e.Msg)
}

func syntaxErrorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

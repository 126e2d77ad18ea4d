package doctree

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
)

// countWords splits on whitespace runs and ignores empty tokens.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// extractText concatenates the inline text content beneath n. Literal
// text inside code blocks is excluded by default; nodes without
// extractable text yield the empty string.
func extractText(n gast.Node, src []byte) string {
	var b strings.Builder
	collectText(n, src, &b)
	return b.String()
}

func collectText(n gast.Node, src []byte, b *strings.Builder) {
	switch t := n.(type) {
	case *gast.FencedCodeBlock, *gast.CodeBlock, *gast.HTMLBlock, *gast.RawHTML:
		return
	case *gast.Text:
		b.Write(t.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			b.WriteByte('\n')
		}
		return
	case *gast.String:
		b.Write(t.Value)
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(c, src, b)
		// Block boundaries separate words even without whitespace in the
		// raw segments.
		if c.Type() == gast.TypeBlock {
			b.WriteByte('\n')
		}
	}
}

// normalizeText collapses whitespace runs to single spaces, for heading
// display text.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lineStart returns the offset of the first byte of the line containing i.
func lineStart(src []byte, i int) int {
	if i > len(src) {
		i = len(src)
	}
	for i > 0 && src[i-1] != '\n' {
		i--
	}
	return i
}

// lineEnd returns the offset just past the newline that ends the line
// containing i (or len(src) for the final unterminated line).
func lineEnd(src []byte, i int) int {
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if i < len(src) {
		i++
	}
	return i
}

// spanOf computes the source byte span of a goldmark block node. Nodes
// without their own line segments (lists, tables, blockquotes) take the
// union of their descendants' segments. Fenced code blocks are widened
// to include both fence lines.
func spanOf(n gast.Node, src []byte) Span {
	start, end := rawExtent(n, src)
	if start < 0 {
		return Span{}
	}
	sp := Span{Start: lineStart(src, start), End: lineEnd(src, end-1)}
	if _, fenced := n.(*gast.FencedCodeBlock); fenced {
		if sp.Start > 0 {
			sp.Start = lineStart(src, sp.Start-1)
		}
		if sp.End < len(src) {
			sp.End = lineEnd(src, sp.End)
		}
	}
	return sp
}

// rawExtent returns the (start, end) byte extent covered by n's own line
// segments and, recursively, its descendants. Returns start -1 when the
// node covers no source bytes.
func rawExtent(n gast.Node, src []byte) (int, int) {
	start, end := -1, -1

	if n.Type() == gast.TypeBlock {
		lines := n.Lines()
		if lines != nil && lines.Len() > 0 {
			start = lines.At(0).Start
			end = lines.At(lines.Len() - 1).Stop
		}
	}
	if t, ok := n.(*gast.Text); ok {
		start = t.Segment.Start
		end = t.Segment.Stop
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cs, ce := rawExtent(c, src)
		if cs < 0 {
			continue
		}
		if start < 0 || cs < start {
			start = cs
		}
		if ce > end {
			end = ce
		}
	}
	return start, end
}

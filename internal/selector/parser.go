package selector

import (
	"strconv"
	"strings"
)

// Parse turns a selector string into its structured form. It returns a
// *SyntaxError for malformed input: empty strings, invalid tokens,
// negative or non-integer indices, invalid node-type/subtype pairs,
// trailing separators, and malformed query suffixes.
func Parse(input string) (*Selector, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, syntaxErrorf(0, "empty selector")
	}

	toks, err := lex(trimmed)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	sel := &Selector{}

	// Optional namespace prefix: IDENT '::'.
	if p.peek().kind == tokIdent && p.peekAt(1).kind == tokDoubleColon {
		sel.Namespace = p.next().text
		p.next() // consume '::'
	} else if p.peek().kind == tokDoubleColon {
		return nil, syntaxErrorf(p.peek().pos, "namespace separator '::' without a namespace")
	}

	// One or more '/'-separated segments.
	for {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		sel.Segments = append(sel.Segments, seg)

		if p.peek().kind != tokSlash {
			break
		}
		slash := p.next()
		if p.peek().kind != tokIdent {
			return nil, syntaxErrorf(slash.pos, "trailing separator '/'")
		}
	}

	// Optional '?key=value(&key=value)*' suffix.
	if p.peek().kind == tokQuestion {
		p.next()
		params, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		sel.Params = params
	}

	if tok := p.peek(); tok.kind != tokEOF {
		return nil, syntaxErrorf(tok.pos, "unexpected %s", tok.kind)
	}
	return sel, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.peekAt(0) }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	tok := p.peek()
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return tok, syntaxErrorf(tok.pos, "expected %s, found %s", kind, tok.kind)
	}
	return p.next(), nil
}

// parseSegment consumes nodeType[:subtype][[index]] and validates the
// node-type/subtype combination.
func (p *parser) parseSegment() (Segment, error) {
	tok := p.peek()
	if tok.kind != tokIdent {
		return Segment{}, syntaxErrorf(tok.pos, "expected node type, found %s", tok.kind)
	}
	p.next()

	var seg Segment
	switch NodeType(tok.text) {
	case TypeRoot, TypeHeading, TypeSection, TypePage, TypeBlock:
		seg.Type = NodeType(tok.text)
	default:
		return Segment{}, syntaxErrorf(tok.pos, "invalid node type %q", tok.text)
	}

	if p.peek().kind == tokColon {
		colon := p.next()
		sub := p.peek()
		if sub.kind != tokIdent && sub.kind != tokNumber {
			return Segment{}, syntaxErrorf(colon.pos, "expected subtype after ':'")
		}
		p.next()
		if err := validateSubtype(seg.Type, sub.text, sub.pos); err != nil {
			return Segment{}, err
		}
		seg.Subtype = sub.text
	}

	if p.peek().kind == tokLBracket {
		lb := p.next()
		num := p.peek()
		if num.kind != tokNumber {
			return Segment{}, syntaxErrorf(num.pos, "expected non-negative index after '[', found %s", num.kind)
		}
		p.next()
		if len(num.text) > 1 && num.text[0] == '0' {
			return Segment{}, syntaxErrorf(num.pos, "index %q has a leading zero", num.text)
		}
		idx, err := strconv.Atoi(num.text)
		if err != nil {
			return Segment{}, syntaxErrorf(num.pos, "index %q is not an integer", num.text)
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return Segment{}, syntaxErrorf(lb.pos, "unterminated index bracket")
		}
		seg.Index = idx
		seg.HasIndex = true
	}

	if seg.Type == TypeRoot && (seg.Subtype != "" || seg.HasIndex) {
		return Segment{}, syntaxErrorf(tok.pos, "root segment must not carry a subtype or index")
	}
	return seg, nil
}

func validateSubtype(typ NodeType, sub string, pos int) error {
	switch typ {
	case TypeHeading:
		if len(sub) == 2 && sub[0] == 'h' && sub[1] >= '1' && sub[1] <= '6' {
			return nil
		}
		return syntaxErrorf(pos, "heading subtype %q must match h1..h6", sub)
	case TypeBlock:
		if blockSubtypes[sub] {
			return nil
		}
		return syntaxErrorf(pos, "invalid block subtype %q", sub)
	default:
		return syntaxErrorf(pos, "%s segments do not take a subtype", typ)
	}
}

// parseQuery consumes key=value pairs separated by '&'. Duplicate keys
// keep the last value.
func (p *parser) parseQuery() (map[string]string, error) {
	params := make(map[string]string)
	for {
		key := p.peek()
		if key.kind != tokIdent && key.kind != tokNumber {
			return nil, syntaxErrorf(key.pos, "expected query parameter name, found %s", key.kind)
		}
		p.next()
		if _, err := p.expect(tokEquals); err != nil {
			return nil, err
		}
		val := p.peek()
		if val.kind != tokIdent && val.kind != tokNumber {
			return nil, syntaxErrorf(val.pos, "expected value for query parameter %q", key.text)
		}
		p.next()
		params[key.text] = val.text

		if p.peek().kind != tokAmp {
			return params, nil
		}
		amp := p.next()
		if p.peek().kind == tokEOF {
			return nil, syntaxErrorf(amp.pos, "trailing separator '&'")
		}
	}
}

package selector

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokColon
	tokDoubleColon
	tokSlash
	tokLBracket
	tokRBracket
	tokQuestion
	tokAmp
	tokEquals
	tokEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokColon:
		return "':'"
	case tokDoubleColon:
		return "'::'"
	case tokSlash:
		return "'/'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokQuestion:
		return "'?'"
	case tokAmp:
		return "'&'"
	case tokEquals:
		return "'='"
	case tokEOF:
		return "end of input"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isIdentChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.':
		return true
	}
	return false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// lex performs a single forward scan over input, producing the token
// stream consumed by the parser. A terminal tokEOF is always appended.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ':':
			if i+1 < len(input) && input[i+1] == ':' {
				toks = append(toks, token{tokDoubleColon, "::", i})
				i += 2
			} else {
				toks = append(toks, token{tokColon, ":", i})
				i++
			}
		case c == '/':
			toks = append(toks, token{tokSlash, "/", i})
			i++
		case c == '[':
			toks = append(toks, token{tokLBracket, "[", i})
			i++
		case c == ']':
			toks = append(toks, token{tokRBracket, "]", i})
			i++
		case c == '?':
			toks = append(toks, token{tokQuestion, "?", i})
			i++
		case c == '&':
			toks = append(toks, token{tokAmp, "&", i})
			i++
		case c == '=':
			toks = append(toks, token{tokEquals, "=", i})
			i++
		case isIdentChar(c):
			start := i
			for i < len(input) && isIdentChar(input[i]) {
				i++
			}
			text := input[start:i]
			if isDigits(text) {
				toks = append(toks, token{tokNumber, text, start})
			} else {
				toks = append(toks, token{tokIdent, text, start})
			}
		default:
			return nil, syntaxErrorf(i, "invalid character %q", c)
		}
	}
	toks = append(toks, token{tokEOF, "", len(input)})
	return toks, nil
}

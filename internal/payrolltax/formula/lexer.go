package formula

import (
	"fmt"
	"strings"

	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokVariable
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokVariable:
		return "variable"
	case tokIdent:
		return "function name"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			start := i
			dots := 0
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				if src[i] == '.' {
					dots++
				}
				i++
			}
			text := src[start:i]
			if dots > 1 || text == "." {
				return nil, syntaxErr(start, "malformed number %q", text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, pos: start})
		case c == '{':
			start := i
			end := strings.IndexByte(src[i:], '}')
			if end < 0 {
				return nil, syntaxErr(start, "unterminated variable placeholder")
			}
			name := strings.TrimSpace(src[i+1 : i+end])
			if !isIdentifier(name) {
				return nil, syntaxErr(start, "invalid variable name %q", name)
			}
			tokens = append(tokens, token{kind: tokVariable, text: name, pos: start})
			i += end + 1
		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			kind, ok := punctuation[c]
			if !ok {
				return nil, syntaxErr(i, "unexpected character %q", string(c))
			}
			tokens = append(tokens, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

var punctuation = map[byte]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isIdentifier(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(s[i]) && !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func syntaxErr(pos int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at position %d", payrolltaxerrors.ErrFormulaSyntax, fmt.Sprintf(format, args...), pos)
}

package formula

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Grammar:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = "-" unary | factor
//	factor = number | "{" name "}" | func "(" expr "," expr ")" | "(" expr ")"
type parser struct {
	tokens []token
	pos    int
}

// maxDepth bounds parenthesis, call and unary nesting.
const maxDepth = 64

// Parse builds an expression tree from formula.
func Parse(formula string) (Expr, error) {
	if strings.TrimSpace(formula) == "" {
		return nil, syntaxErr(0, "empty formula")
	}

	tokens, err := tokenize(formula)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, syntaxErr(tok.pos, "unexpected %s", describe(tok))
	}
	return expr, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, syntaxErr(tok.pos, "expected %s, found %s", kind, describe(tok))
	}
	return tok, nil
}

func (p *parser) parseExpr(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, syntaxErr(p.peek().pos, "formula nested too deeply")
	}

	left, err := p.parseTerm(depth)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokPlus && tok.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm(depth)
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if tok.kind == tokMinus {
			op = OpSub
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseTerm(depth int) (Expr, error) {
	left, err := p.parseUnary(depth)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokStar && tok.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary(depth)
		if err != nil {
			return nil, err
		}
		op := OpMul
		if tok.kind == tokSlash {
			op = OpDiv
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary(depth int) (Expr, error) {
	if p.peek().kind == tokMinus {
		p.next()
		if depth+1 > maxDepth {
			return nil, syntaxErr(p.peek().pos, "formula nested too deeply")
		}
		operand, err := p.parseUnary(depth + 1)
		if err != nil {
			return nil, err
		}
		return &Negate{Operand: operand}, nil
	}
	return p.parseFactor(depth)
}

func (p *parser) parseFactor(depth int) (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		v, err := decimal.NewFromString(tok.text)
		if err != nil {
			return nil, syntaxErr(tok.pos, "malformed number %q", tok.text)
		}
		return &Literal{Value: v}, nil

	case tokVariable:
		return &Variable{Name: tok.text}, nil

	case tokLParen:
		inner, err := p.parseExpr(depth + 1)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case tokIdent:
		return p.parseCall(tok, depth)

	default:
		return nil, syntaxErr(tok.pos, "unexpected %s", describe(tok))
	}
}

func (p *parser) parseCall(name token, depth int) (Expr, error) {
	fn := Func(strings.ToUpper(name.text))
	if fn != FuncMax && fn != FuncMin {
		return nil, syntaxErr(name.pos, "unknown function %q", name.text)
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	var args []Expr
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr(depth + 1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	closing, err := p.expect(tokRParen)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, syntaxErr(closing.pos, "%s expects 2 arguments, got %d", fn, len(args))
	}
	return &Call{Func: fn, Args: [2]Expr{args[0], args[1]}}, nil
}

func describe(tok token) string {
	if tok.kind == tokEOF {
		return tok.kind.String()
	}
	return tok.kind.String() + " " + `"` + tok.text + `"`
}

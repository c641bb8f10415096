package formula

import (
	"github.com/shopspring/decimal"
)

// Expr is a node of a parsed formula. The concrete node types are the only
// implementations; evaluation never does anything but arithmetic.
type Expr interface {
	Eval(vars map[string]decimal.Decimal) (decimal.Decimal, error)
	String() string
	walk(fn func(Expr))
}

type Literal struct {
	Value decimal.Decimal
}

type Variable struct {
	Name string
}

type Negate struct {
	Operand Expr
}

type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
)

type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

type Func string

const (
	FuncMax Func = "MAX"
	FuncMin Func = "MIN"
)

type Call struct {
	Func Func
	Args [2]Expr
}

func (l *Literal) String() string  { return l.Value.String() }
func (v *Variable) String() string { return "{" + v.Name + "}" }
func (n *Negate) String() string   { return "-(" + n.Operand.String() + ")" }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}
func (c *Call) String() string {
	return string(c.Func) + "(" + c.Args[0].String() + ", " + c.Args[1].String() + ")"
}

func (l *Literal) walk(fn func(Expr))  { fn(l) }
func (v *Variable) walk(fn func(Expr)) { fn(v) }
func (n *Negate) walk(fn func(Expr)) {
	fn(n)
	n.Operand.walk(fn)
}
func (b *Binary) walk(fn func(Expr)) {
	fn(b)
	b.Left.walk(fn)
	b.Right.walk(fn)
}
func (c *Call) walk(fn func(Expr)) {
	fn(c)
	c.Args[0].walk(fn)
	c.Args[1].walk(fn)
}

// Variables returns the distinct placeholder names referenced by e, in order
// of first appearance.
func Variables(e Expr) []string {
	seen := make(map[string]struct{})
	var names []string
	e.walk(func(node Expr) {
		v, ok := node.(*Variable)
		if !ok {
			return
		}
		if _, dup := seen[v.Name]; dup {
			return
		}
		seen[v.Name] = struct{}{}
		names = append(names, v.Name)
	})
	return names
}

package formula

import (
	"fmt"

	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"

	"github.com/shopspring/decimal"
)

// Evaluate parses and evaluates formula against vars in one step.
func Evaluate(formula string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	expr, err := Parse(formula)
	if err != nil {
		return decimal.Zero, err
	}
	return expr.Eval(vars)
}

func (l *Literal) Eval(map[string]decimal.Decimal) (decimal.Decimal, error) {
	return l.Value, nil
}

func (v *Variable) Eval(vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	val, ok := vars[v.Name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", payrolltaxerrors.ErrUnknownVariable, v.Name)
	}
	return val, nil
}

func (n *Negate) Eval(vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	val, err := n.Operand.Eval(vars)
	if err != nil {
		return decimal.Zero, err
	}
	return val.Neg(), nil
}

func (b *Binary) Eval(vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	left, err := b.Left.Eval(vars)
	if err != nil {
		return decimal.Zero, err
	}
	right, err := b.Right.Eval(vars)
	if err != nil {
		return decimal.Zero, err
	}

	switch b.Op {
	case OpAdd:
		return left.Add(right), nil
	case OpSub:
		return left.Sub(right), nil
	case OpMul:
		return left.Mul(right), nil
	case OpDiv:
		if right.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: %s", payrolltaxerrors.ErrDivisionByZero, b.String())
		}
		return left.Div(right), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown operator %q", payrolltaxerrors.ErrFormulaSyntax, string(b.Op))
	}
}

func (c *Call) Eval(vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	a, err := c.Args[0].Eval(vars)
	if err != nil {
		return decimal.Zero, err
	}
	b, err := c.Args[1].Eval(vars)
	if err != nil {
		return decimal.Zero, err
	}

	switch c.Func {
	case FuncMax:
		return decimal.Max(a, b), nil
	case FuncMin:
		return decimal.Min(a, b), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown function %q", payrolltaxerrors.ErrFormulaSyntax, string(c.Func))
	}
}

package payrolltax

import (
	"fmt"

	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"
	"peopleflow-hr/internal/payrolltax/formula"
	"peopleflow-hr/internal/shared/money"

	"github.com/shopspring/decimal"
)

// DeductionContext carries the gross figures a deduction formula may read.
// All amounts are minor units.
type DeductionContext struct {
	AnnualGross    money.Cents
	PeriodGross    money.Cents
	PeriodsPerYear decimal.Decimal
}

// Formula variables, bound in major units.
const (
	VarAnnualGross    = "annualGross"
	VarMonthlyGross   = "monthlyGross"
	VarGross          = "gross"
	VarPeriodGross    = "periodGross"
	VarPeriodsPerYear = "periodsPerYear"
)

// ResolveDeduction returns the annual tax-free allowance for policy. It always
// receives annual gross and always returns an annual amount. For a monthly
// basis the formula's {gross} is monthly gross and its result is a monthly
// allowance, multiplied by 12. Negative results clamp to zero.
func ResolveDeduction(policy PersonalDeduction, ctx DeductionContext) (money.Cents, error) {
	switch policy.Type {
	case DeductionFlat:
		if policy.Amount < 0 {
			return 0, fmt.Errorf("%w: flat deduction %d is negative", payrolltaxerrors.ErrInvalidInput, policy.Amount)
		}
		return policy.Amount, nil

	case DeductionFormula:
		expr, err := formula.Parse(policy.Formula)
		if err != nil {
			return 0, err
		}

		result, err := expr.Eval(deductionVariables(policy.Basis, ctx))
		if err != nil {
			return 0, err
		}
		if policy.Basis == BasisMonthly {
			result = result.Mul(monthsPerYear)
		}

		deduction := money.FromMajor(result)
		if deduction < 0 {
			return 0, nil
		}
		return deduction, nil

	default:
		return 0, fmt.Errorf("%w: unknown deduction type %q", payrolltaxerrors.ErrInvalidInput, policy.Type)
	}
}

func deductionVariables(basis DeductionBasis, ctx DeductionContext) map[string]decimal.Decimal {
	annual := ctx.AnnualGross.Major()
	monthly := annual.Div(monthsPerYear)

	gross := annual
	if basis == BasisMonthly {
		gross = monthly
	}

	vars := map[string]decimal.Decimal{
		VarAnnualGross:  annual,
		VarMonthlyGross: monthly,
		VarGross:        gross,
		VarPeriodGross:  ctx.PeriodGross.Major(),
	}
	if ctx.PeriodsPerYear.IsPositive() {
		vars[VarPeriodsPerYear] = ctx.PeriodsPerYear
	}
	return vars
}

// ValidateDeduction checks a policy without evaluating it, so bad formulas
// are caught when rules are loaded rather than mid-run.
func ValidateDeduction(policy PersonalDeduction) error {
	switch policy.Type {
	case DeductionFlat:
		if policy.Amount < 0 {
			return fmt.Errorf("%w: flat deduction %d is negative", payrolltaxerrors.ErrInvalidInput, policy.Amount)
		}
		return nil
	case DeductionFormula:
		switch policy.Basis {
		case "", BasisAnnual, BasisMonthly:
		default:
			return fmt.Errorf("%w: unknown deduction basis %q", payrolltaxerrors.ErrInvalidInput, policy.Basis)
		}
		expr, err := formula.Parse(policy.Formula)
		if err != nil {
			return err
		}
		for _, name := range formula.Variables(expr) {
			if !knownVariable(name) {
				return fmt.Errorf("%w: %q", payrolltaxerrors.ErrUnknownVariable, name)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown deduction type %q", payrolltaxerrors.ErrInvalidInput, policy.Type)
	}
}

func knownVariable(name string) bool {
	switch name {
	case VarAnnualGross, VarMonthlyGross, VarGross, VarPeriodGross, VarPeriodsPerYear:
		return true
	}
	return false
}

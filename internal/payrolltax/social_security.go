package payrolltax

import (
	"fmt"

	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"
	"peopleflow-hr/internal/shared/money"

	"github.com/shopspring/decimal"
)

// PeriodEarnings is what an employee earned in one pay period. Components
// name the parts of gross that a component-based contribution basis may
// select, e.g. "basic" or "overtime".
type PeriodEarnings struct {
	Gross      money.Cents            `json:"gross"`
	Components map[string]money.Cents `json:"components,omitempty"`
}

type ContributionResult struct {
	ContributableEarnings money.Cents  `json:"contributable_earnings"`
	PeriodCeiling         *money.Cents `json:"period_ceiling,omitempty"`
	EmployeeContribution  money.Cents  `json:"employee_contribution"`
	EmployerContribution  money.Cents  `json:"employer_contribution"`
}

func ValidateSocialSecurityRule(rule SocialSecurityRule) error {
	if !rateInRange(rule.EmployeeRate) {
		return fmt.Errorf("%w: employee rate %s outside [0,1]", payrolltaxerrors.ErrInvalidInput, rule.EmployeeRate)
	}
	if !rateInRange(rule.EmployerRate) {
		return fmt.Errorf("%w: employer rate %s outside [0,1]", payrolltaxerrors.ErrInvalidInput, rule.EmployerRate)
	}
	switch rule.CeilingPeriod {
	case CeilingMonthly, CeilingAnnual:
		if rule.Ceiling < 0 {
			return fmt.Errorf("%w: ceiling %d is negative", payrolltaxerrors.ErrInvalidInput, rule.Ceiling)
		}
	case CeilingNone, "":
	default:
		return fmt.Errorf("%w: unknown ceiling period %q", payrolltaxerrors.ErrInvalidInput, rule.CeilingPeriod)
	}
	switch rule.Basis {
	case ContributionBasisGross, "":
	case ContributionBasisComponents:
		if len(rule.Components) == 0 {
			return fmt.Errorf("%w: component basis without components", payrolltaxerrors.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown contribution basis %q", payrolltaxerrors.ErrInvalidInput, rule.Basis)
	}
	return nil
}

// ComputeContributions applies both rates to the period's earnings capped at
// the per-period ceiling. A monthly ceiling is scaled to the period length
// (x12/periods), an annual ceiling is divided by periods.
func ComputeContributions(rule SocialSecurityRule, earnings PeriodEarnings, periods decimal.Decimal) (ContributionResult, error) {
	if earnings.Gross < 0 {
		return ContributionResult{}, fmt.Errorf("%w: period gross %d is negative", payrolltaxerrors.ErrInvalidInput, earnings.Gross)
	}
	if err := checkPeriods(periods); err != nil {
		return ContributionResult{}, err
	}
	if err := ValidateSocialSecurityRule(rule); err != nil {
		return ContributionResult{}, err
	}

	base, err := contributionBase(rule, earnings)
	if err != nil {
		return ContributionResult{}, err
	}

	contributable := base.Decimal()
	var periodCeiling *decimal.Decimal
	switch rule.CeilingPeriod {
	case CeilingMonthly:
		c := rule.Ceiling.Decimal().Mul(monthsPerYear).Div(periods)
		periodCeiling = &c
	case CeilingAnnual:
		c := rule.Ceiling.Decimal().Div(periods)
		periodCeiling = &c
	}
	if periodCeiling != nil && periodCeiling.LessThan(contributable) {
		contributable = *periodCeiling
	}

	result := ContributionResult{
		ContributableEarnings: money.RoundHalfUp(contributable),
		EmployeeContribution:  money.RoundHalfUp(contributable.Mul(rule.EmployeeRate)),
		EmployerContribution:  money.RoundHalfUp(contributable.Mul(rule.EmployerRate)),
	}
	if periodCeiling != nil {
		c := money.RoundHalfUp(*periodCeiling)
		result.PeriodCeiling = &c
	}
	return result, nil
}

func contributionBase(rule SocialSecurityRule, earnings PeriodEarnings) (money.Cents, error) {
	if rule.Basis != ContributionBasisComponents {
		return earnings.Gross, nil
	}

	var base money.Cents
	for _, name := range rule.Components {
		amount := earnings.Components[name]
		if amount < 0 {
			return 0, fmt.Errorf("%w: earning component %q is negative", payrolltaxerrors.ErrInvalidInput, name)
		}
		base += amount
	}
	return base, nil
}

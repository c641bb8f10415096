package payrolltax

import (
	"fmt"

	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"
	"peopleflow-hr/internal/shared/money"

	"github.com/shopspring/decimal"
)

type CalculationInput struct {
	IncomeTax IncomeTaxRule
	// SocialSecurity is required. A jurisdiction without a contribution
	// scheme carries a rule with zero rates.
	SocialSecurity *SocialSecurityRule
	Earnings       PeriodEarnings
	PeriodsPerYear decimal.Decimal
	Subject        Subject
}

// PayslipTaxBreakdown is built fresh by every Calculate call and never
// mutated afterwards. Money fields are minor units.
type PayslipTaxBreakdown struct {
	PeriodGross           money.Cents       `json:"period_gross"`
	PeriodsPerYear        decimal.Decimal   `json:"periods_per_year"`
	AnnualGross           money.Cents       `json:"annual_gross"`
	PersonalDeduction     money.Cents       `json:"personal_deduction"`
	TaxableIncome         money.Cents       `json:"taxable_income"`
	TaxableBands          []TaxBandDetail   `json:"taxable_bands"`
	AnnualTax             decimal.Decimal   `json:"annual_tax"`
	PeriodTax             money.Cents       `json:"period_tax"`
	ContributableEarnings money.Cents       `json:"contributable_earnings"`
	EmployeeContribution  money.Cents       `json:"employee_contribution"`
	EmployerContribution  money.Cents       `json:"employer_contribution"`
	NetPay                money.Cents       `json:"net_pay"`
	RoundingMode          RoundingMode      `json:"rounding_mode"`
	Periodization         PeriodizationMode `json:"periodization"`
}

// ValidateIncomeTaxRule checks bands, deduction policy and modes.
func ValidateIncomeTaxRule(rule IncomeTaxRule) error {
	if err := ValidateBands(rule.Bands); err != nil {
		return err
	}
	if err := ValidateDeduction(rule.Deduction); err != nil {
		return err
	}
	switch rule.RoundingMode {
	case "", RoundNearest, RoundUp, RoundDown, RoundNone:
	default:
		return fmt.Errorf("%w: unknown rounding mode %q", payrolltaxerrors.ErrInvalidInput, rule.RoundingMode)
	}
	switch rule.Periodization {
	case "", PeriodizeAnnualized, PeriodizeDirect:
	default:
		return fmt.Errorf("%w: unknown periodization %q", payrolltaxerrors.ErrInvalidInput, rule.Periodization)
	}
	return nil
}

// Calculate computes income tax, contributions and net pay for one employee
// and one pay period. It returns either a complete breakdown or an error;
// never a partial result.
func Calculate(in CalculationInput) (PayslipTaxBreakdown, error) {
	fail := func(stage Stage, err error) (PayslipTaxBreakdown, error) {
		return PayslipTaxBreakdown{}, &CalculationError{Stage: stage, Subject: in.Subject, Err: err}
	}

	rule := in.IncomeTax
	if err := ValidateIncomeTaxRule(rule); err != nil {
		return fail(StageValidate, err)
	}
	if in.SocialSecurity == nil {
		return fail(StageValidate, fmt.Errorf("%w: no social security rule", payrolltaxerrors.ErrNoApplicableTaxRule))
	}
	if in.Earnings.Gross < 0 {
		return fail(StageValidate, fmt.Errorf("%w: period gross %d is negative", payrolltaxerrors.ErrInvalidInput, in.Earnings.Gross))
	}
	periods := in.PeriodsPerYear
	periodGross := in.Earnings.Gross.Decimal()

	annualGrossExact, err := ToAnnual(periodGross, periods)
	if err != nil {
		return fail(StageAnnualize, err)
	}
	annualGross := money.RoundHalfUp(annualGrossExact)

	deduction, err := ResolveDeduction(rule.Deduction, DeductionContext{
		AnnualGross:    annualGross,
		PeriodGross:    in.Earnings.Gross,
		PeriodsPerYear: periods,
	})
	if err != nil {
		return fail(StageDeduction, err)
	}
	taxable := money.Max(0, annualGross-deduction)

	bounds := toBounds(rule.Bands)
	var (
		bands     TaxComputation
		annualTax decimal.Decimal
		periodTax money.Cents
	)
	switch rule.Periodization {
	case PeriodizeDirect:
		periodDeduction, err := FromAnnual(deduction.Decimal(), periods)
		if err != nil {
			return fail(StageDeannualize, err)
		}
		periodTaxable := decimal.Max(zero, periodGross.Sub(periodDeduction))
		bands, err = computeBands(scaleBounds(bounds, periods), periodTaxable, rule.RoundingMode)
		if err != nil {
			return fail(StageBands, err)
		}
		periodTax = money.RoundHalfUp(bands.TotalTax)
		annualTax, _ = ToAnnual(bands.TotalTax, periods)

	default:
		bands, err = computeBands(bounds, taxable.Decimal(), rule.RoundingMode)
		if err != nil {
			return fail(StageBands, err)
		}
		annualTax = bands.TotalTax
		perPeriod, err := FromAnnual(annualTax, periods)
		if err != nil {
			return fail(StageDeannualize, err)
		}
		periodTax = money.RoundHalfUp(perPeriod)
	}

	contributions, err := ComputeContributions(*in.SocialSecurity, in.Earnings, periods)
	if err != nil {
		return fail(StageSocialSecurity, err)
	}

	periodization := rule.Periodization
	if periodization == "" {
		periodization = PeriodizeAnnualized
	}
	rounding := rule.RoundingMode
	if rounding == "" {
		rounding = RoundNearest
	}

	return PayslipTaxBreakdown{
		PeriodGross:           in.Earnings.Gross,
		PeriodsPerYear:        periods,
		AnnualGross:           annualGross,
		PersonalDeduction:     deduction,
		TaxableIncome:         taxable,
		TaxableBands:          bands.Breakdown,
		AnnualTax:             annualTax,
		PeriodTax:             periodTax,
		ContributableEarnings: contributions.ContributableEarnings,
		EmployeeContribution:  contributions.EmployeeContribution,
		EmployerContribution:  contributions.EmployerContribution,
		NetPay:                in.Earnings.Gross - periodTax - contributions.EmployeeContribution,
		RoundingMode:          rounding,
		Periodization:         periodization,
	}, nil
}

// CalculateWithRuleSet is Calculate with the rules of a resolved RuleSet.
func CalculateWithRuleSet(rules RuleSet, earnings PeriodEarnings, frequency PayFrequency, subject Subject) (PayslipTaxBreakdown, error) {
	if !frequency.Valid() {
		return PayslipTaxBreakdown{}, &CalculationError{
			Stage:   StageValidate,
			Subject: subject,
			Err:     fmt.Errorf("%w: unsupported pay frequency %q", payrolltaxerrors.ErrInvalidInput, frequency),
		}
	}
	if subject.JurisdictionCode == "" {
		subject.JurisdictionCode = rules.JurisdictionCode
	}
	if subject.TaxYear == 0 {
		subject.TaxYear = rules.TaxYear
	}
	return Calculate(CalculationInput{
		IncomeTax:      rules.IncomeTax,
		SocialSecurity: rules.SocialSecurity,
		Earnings:       earnings,
		PeriodsPerYear: frequency.PeriodsPerYear(),
		Subject:        subject,
	})
}

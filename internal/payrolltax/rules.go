// Package payrolltax computes income tax withholding and social security
// contributions for one employee and one pay period from a jurisdiction's
// declarative rules. It is pure: no I/O, no shared mutable state, safe for
// concurrent use. Rule values passed in must not be mutated while in use.
package payrolltax

import (
	"peopleflow-hr/internal/shared/money"

	"github.com/shopspring/decimal"
)

type RoundingMode string

const (
	RoundNearest RoundingMode = "nearest"
	RoundUp      RoundingMode = "up"
	RoundDown    RoundingMode = "down"
	RoundNone    RoundingMode = "none"
)

type PeriodizationMode string

const (
	// PeriodizeAnnualized annualizes period gross, taxes it on the annual
	// bands and divides the result back to the period.
	PeriodizeAnnualized PeriodizationMode = "annualized"
	// PeriodizeDirect scales the bands and deduction down to the period and
	// taxes the period gross directly.
	PeriodizeDirect PeriodizationMode = "direct"
)

type DeductionType string

const (
	DeductionFlat    DeductionType = "flat"
	DeductionFormula DeductionType = "formula"
)

type DeductionBasis string

const (
	BasisAnnual  DeductionBasis = "annual"
	BasisMonthly DeductionBasis = "monthly"
)

type CeilingPeriod string

const (
	CeilingMonthly CeilingPeriod = "monthly"
	CeilingAnnual  CeilingPeriod = "annual"
	CeilingNone    CeilingPeriod = "none"
)

type ContributionBasis string

const (
	ContributionBasisGross      ContributionBasis = "gross"
	ContributionBasisComponents ContributionBasis = "components"
)

// TaxBand is one bracket of a progressive schedule on an annual basis.
// MinAmount is inclusive. MaxAmount nil means unbounded.
type TaxBand struct {
	Order      int             `json:"order"`
	Name       string          `json:"name"`
	MinAmount  money.Cents     `json:"min_amount"`
	MaxAmount  *money.Cents    `json:"max_amount,omitempty"`
	Rate       decimal.Decimal `json:"rate"`
	FlatAmount *money.Cents    `json:"flat_amount,omitempty"`
}

type PersonalDeduction struct {
	Type    DeductionType  `json:"type"`
	Amount  money.Cents    `json:"amount,omitempty"`
	Basis   DeductionBasis `json:"basis,omitempty"`
	Formula string         `json:"formula,omitempty"`
}

type IncomeTaxRule struct {
	TaxYear       int               `json:"tax_year"`
	Bands         []TaxBand         `json:"bands"`
	Deduction     PersonalDeduction `json:"deduction"`
	RoundingMode  RoundingMode      `json:"rounding_mode"`
	Periodization PeriodizationMode `json:"periodization"`
}

type SocialSecurityRule struct {
	TaxYear       int               `json:"tax_year"`
	EmployeeRate  decimal.Decimal   `json:"employee_rate"`
	EmployerRate  decimal.Decimal   `json:"employer_rate"`
	Ceiling       money.Cents       `json:"ceiling"`
	CeilingPeriod CeilingPeriod     `json:"ceiling_period"`
	Basis         ContributionBasis `json:"basis"`
	Components    []string          `json:"components,omitempty"`
}

// RuleSet is what the persistence layer resolves for one jurisdiction at one
// instant. It is shared read-only across every calculation of a payroll run.
type RuleSet struct {
	JurisdictionCode string              `json:"jurisdiction_code"`
	Currency         string              `json:"currency"`
	TaxYear          int                 `json:"tax_year"`
	IncomeTax        IncomeTaxRule       `json:"income_tax"`
	SocialSecurity   *SocialSecurityRule `json:"social_security,omitempty"`
}

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

func rateInRange(r decimal.Decimal) bool {
	return !r.LessThan(zero) && !r.GreaterThan(one)
}

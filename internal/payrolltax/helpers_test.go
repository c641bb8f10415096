package payrolltax_test

import (
	"peopleflow-hr/internal/payrolltax"
	"peopleflow-hr/internal/shared/money"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func major(v int64) money.Cents {
	return money.Cents(v * money.MinorUnitsPerMajor)
}

func centsPtr(c money.Cents) *money.Cents {
	return &c
}

// guyana2024 mirrors the 2024 Guyana PAYE schedule and NIS rates.
func guyana2024() payrolltax.RuleSet {
	return payrolltax.RuleSet{
		JurisdictionCode: "GY",
		Currency:         "GYD",
		TaxYear:          2024,
		IncomeTax: payrolltax.IncomeTaxRule{
			TaxYear: 2024,
			Bands: []payrolltax.TaxBand{
				{Order: 1, Name: "First band", MinAmount: 0, MaxAmount: centsPtr(major(3_120_000)), Rate: dec("0.25")},
				{Order: 2, Name: "Second band", MinAmount: major(3_120_000), Rate: dec("0.35")},
			},
			Deduction: payrolltax.PersonalDeduction{
				Type:    payrolltax.DeductionFormula,
				Basis:   payrolltax.BasisAnnual,
				Formula: "MAX(1560000, {annualGross} * 0.333)",
			},
			RoundingMode:  payrolltax.RoundNearest,
			Periodization: payrolltax.PeriodizeAnnualized,
		},
		SocialSecurity: &payrolltax.SocialSecurityRule{
			TaxYear:       2024,
			EmployeeRate:  dec("0.056"),
			EmployerRate:  dec("0.084"),
			Ceiling:       major(280_000),
			CeilingPeriod: payrolltax.CeilingMonthly,
			Basis:         payrolltax.ContributionBasisGross,
		},
	}
}

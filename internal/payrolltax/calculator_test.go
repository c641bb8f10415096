package payrolltax_test

import (
	"errors"
	"sync"
	"testing"

	"peopleflow-hr/internal/payrolltax"
	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"
	"peopleflow-hr/internal/shared/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_GuyanaMonthly(t *testing.T) {
	got, err := payrolltax.CalculateWithRuleSet(
		guyana2024(),
		payrolltax.PeriodEarnings{Gross: major(300_000)},
		payrolltax.FrequencyMonthly,
		payrolltax.Subject{EmployeeID: "emp-1", Period: "2024-03"},
	)
	require.NoError(t, err)

	assert.Equal(t, major(3_600_000), got.AnnualGross)
	assert.Equal(t, major(1_560_000), got.PersonalDeduction)
	assert.Equal(t, major(2_040_000), got.TaxableIncome)
	assert.True(t, got.AnnualTax.Equal(dec("51000000")), "annual tax %s", got.AnnualTax)
	assert.Equal(t, major(42_500), got.PeriodTax)
	assert.Equal(t, major(280_000), got.ContributableEarnings)
	assert.Equal(t, major(15_680), got.EmployeeContribution)
	assert.Equal(t, major(23_520), got.EmployerContribution)
	assert.Equal(t, major(241_820), got.NetPay)
	assert.Equal(t, payrolltax.RoundNearest, got.RoundingMode)
	assert.Equal(t, payrolltax.PeriodizeAnnualized, got.Periodization)

	require.Len(t, got.TaxableBands, 1)
	assert.Equal(t, "First band", got.TaxableBands[0].BandName)
}

func TestCalculate_GuyanaWeekly(t *testing.T) {
	got, err := payrolltax.CalculateWithRuleSet(
		guyana2024(),
		payrolltax.PeriodEarnings{Gross: major(100_000)},
		payrolltax.FrequencyWeekly,
		payrolltax.Subject{},
	)
	require.NoError(t, err)

	assert.Equal(t, major(5_200_000), got.AnnualGross)
	assert.Equal(t, major(1_731_600), got.PersonalDeduction)
	assert.Equal(t, major(3_468_400), got.TaxableIncome)
	assert.Equal(t, major(17_345), got.PeriodTax)
	assert.Len(t, got.TaxableBands, 2)
	assert.Equal(t, money.Cents(361_846), got.EmployeeContribution)
	assert.Equal(t, money.Cents(7_903_654), got.NetPay)
}

func TestCalculate_BelowDeduction(t *testing.T) {
	got, err := payrolltax.CalculateWithRuleSet(
		guyana2024(),
		payrolltax.PeriodEarnings{Gross: major(100_000)},
		payrolltax.FrequencyMonthly,
		payrolltax.Subject{},
	)
	require.NoError(t, err)

	assert.Equal(t, money.Cents(0), got.TaxableIncome)
	assert.Equal(t, money.Cents(0), got.PeriodTax)
	assert.True(t, got.AnnualTax.IsZero())
	assert.Equal(t, major(100_000-5_600), got.NetPay)
}

func TestCalculate_ZeroGross(t *testing.T) {
	got, err := payrolltax.CalculateWithRuleSet(guyana2024(), payrolltax.PeriodEarnings{}, payrolltax.FrequencyMonthly, payrolltax.Subject{})
	require.NoError(t, err)

	assert.Equal(t, money.Cents(0), got.PeriodTax)
	assert.Equal(t, money.Cents(0), got.EmployeeContribution)
	assert.Equal(t, money.Cents(0), got.NetPay)
}

func TestCalculate_DirectPeriodization(t *testing.T) {
	rules := guyana2024()
	rules.IncomeTax.Periodization = payrolltax.PeriodizeDirect

	got, err := payrolltax.CalculateWithRuleSet(rules, payrolltax.PeriodEarnings{Gross: major(300_000)}, payrolltax.FrequencyMonthly, payrolltax.Subject{})
	require.NoError(t, err)

	assert.Equal(t, major(42_500), got.PeriodTax)
	assert.True(t, got.AnnualTax.Equal(dec("51000000")), "annual tax %s", got.AnnualTax)
	assert.Equal(t, payrolltax.PeriodizeDirect, got.Periodization)
}

func TestCalculate_MissingSocialSecurityRule(t *testing.T) {
	rules := guyana2024()
	rules.SocialSecurity = nil

	got, err := payrolltax.CalculateWithRuleSet(rules, payrolltax.PeriodEarnings{Gross: major(300_000)}, payrolltax.FrequencyMonthly, payrolltax.Subject{EmployeeID: "emp-3"})

	require.Error(t, err)
	assert.ErrorIs(t, err, payrolltaxerrors.ErrNoApplicableTaxRule)
	var calcErr *payrolltax.CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, payrolltax.StageValidate, calcErr.Stage)
	assert.Equal(t, payrolltax.PayslipTaxBreakdown{}, got)
}

func TestCalculate_ZeroRateSocialSecurity(t *testing.T) {
	rules := guyana2024()
	rules.SocialSecurity = &payrolltax.SocialSecurityRule{
		TaxYear:       2024,
		EmployeeRate:  dec("0"),
		EmployerRate:  dec("0"),
		CeilingPeriod: payrolltax.CeilingNone,
		Basis:         payrolltax.ContributionBasisGross,
	}

	got, err := payrolltax.CalculateWithRuleSet(rules, payrolltax.PeriodEarnings{Gross: major(300_000)}, payrolltax.FrequencyMonthly, payrolltax.Subject{})
	require.NoError(t, err)

	assert.Equal(t, money.Cents(0), got.EmployeeContribution)
	assert.Equal(t, money.Cents(0), got.EmployerContribution)
	assert.Equal(t, major(300_000-42_500), got.NetPay)
}

func TestCalculate_Deterministic(t *testing.T) {
	rules := guyana2024()
	earnings := payrolltax.PeriodEarnings{Gross: money.Cents(31_234_567)}

	first, err := payrolltax.CalculateWithRuleSet(rules, earnings, payrolltax.FrequencyBiweekly, payrolltax.Subject{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]payrolltax.PayslipTaxBreakdown, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = payrolltax.CalculateWithRuleSet(rules, earnings, payrolltax.FrequencyBiweekly, payrolltax.Subject{})
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, first, r)
	}
}

func TestCalculate_Errors(t *testing.T) {
	subject := payrolltax.Subject{EmployeeID: "emp-9", Period: "2024-05", JurisdictionCode: "GY", TaxYear: 2024}

	t.Run("negative gross", func(t *testing.T) {
		_, err := payrolltax.CalculateWithRuleSet(guyana2024(), payrolltax.PeriodEarnings{Gross: -100}, payrolltax.FrequencyMonthly, subject)

		var calcErr *payrolltax.CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, payrolltax.StageValidate, calcErr.Stage)
		assert.Equal(t, "emp-9", calcErr.Subject.EmployeeID)
		assert.ErrorIs(t, err, payrolltaxerrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "employee=emp-9")
	})

	t.Run("unsupported frequency", func(t *testing.T) {
		_, err := payrolltax.CalculateWithRuleSet(guyana2024(), payrolltax.PeriodEarnings{Gross: 1}, "fortnightly", subject)
		assert.ErrorIs(t, err, payrolltaxerrors.ErrInvalidInput)
	})

	t.Run("invalid bands", func(t *testing.T) {
		rules := guyana2024()
		rules.IncomeTax.Bands[1].MinAmount = major(3_000_000)

		_, err := payrolltax.CalculateWithRuleSet(rules, payrolltax.PeriodEarnings{Gross: 1}, payrolltax.FrequencyMonthly, subject)
		var calcErr *payrolltax.CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, payrolltax.StageValidate, calcErr.Stage)
		assert.ErrorIs(t, err, payrolltaxerrors.ErrInvalidBandConfiguration)
	})

	t.Run("formula divides by zero", func(t *testing.T) {
		rules := guyana2024()
		rules.IncomeTax.Deduction.Formula = "{annualGross} / ({periodsPerYear} - 12)"

		_, err := payrolltax.CalculateWithRuleSet(rules, payrolltax.PeriodEarnings{Gross: major(1_000)}, payrolltax.FrequencyMonthly, subject)
		var calcErr *payrolltax.CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, payrolltax.StageDeduction, calcErr.Stage)
		assert.ErrorIs(t, err, payrolltaxerrors.ErrDivisionByZero)
	})

	t.Run("bad social security rate", func(t *testing.T) {
		rules := guyana2024()
		rules.SocialSecurity.EmployeeRate = dec("-0.01")

		_, err := payrolltax.CalculateWithRuleSet(rules, payrolltax.PeriodEarnings{Gross: major(1_000)}, payrolltax.FrequencyMonthly, subject)
		var calcErr *payrolltax.CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, payrolltax.StageSocialSecurity, calcErr.Stage)
	})

	t.Run("zero periods", func(t *testing.T) {
		rules := guyana2024()
		_, err := payrolltax.Calculate(payrolltax.CalculationInput{
			IncomeTax:      rules.IncomeTax,
			SocialSecurity: rules.SocialSecurity,
			Earnings:       payrolltax.PeriodEarnings{Gross: 1},
			PeriodsPerYear: dec("0"),
		})
		var calcErr *payrolltax.CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, payrolltax.StageAnnualize, calcErr.Stage)
	})
}

package jurisdiction_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"peopleflow-hr/internal/jurisdiction"
	jurisdictionerrors "peopleflow-hr/internal/jurisdiction/errors"
	jurisdictionMock "peopleflow-hr/internal/jurisdiction/mock"
	"peopleflow-hr/internal/payrolltax"
	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"
	"peopleflow-hr/internal/shared/money"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service jurisdiction.Service
	repo    *jurisdictionMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := jurisdictionMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: jurisdiction.NewService(db, repo, nil, 0),
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func guyana() *jurisdiction.TaxJurisdiction {
	return &jurisdiction.TaxJurisdiction{
		ID:                   uuid.MustParse("6f1c3c3e-5d1e-4c55-9a51-0d6d7f3f2a10"),
		Code:                 "GY",
		Name:                 "Guyana",
		Currency:             "GYD",
		FiscalYearStartMonth: 1,
		IsActive:             true,
	}
}

func guyanaIncomeRule(from time.Time, to *time.Time) jurisdiction.IncomeTaxRule {
	return jurisdiction.IncomeTaxRule{
		ID:               uuid.New(),
		TaxYear:          2024,
		EffectiveFrom:    from,
		EffectiveTo:      to,
		RoundingMode:     "nearest",
		Periodization:    "annualized",
		DeductionType:    "formula",
		DeductionBasis:   "annual",
		DeductionFormula: "MAX(1560000, {annualGross} * 0.333)",
		Bands: []jurisdiction.TaxBandRow{
			{BandOrder: 2, Name: "Second band", MinAmount: 312_000_000, Rate: decimal.RequireFromString("0.35")},
			{BandOrder: 1, Name: "First band", MinAmount: 0, MaxAmount: int64Ptr(312_000_000), Rate: decimal.RequireFromString("0.25")},
		},
	}
}

func guyanaNIS() jurisdiction.SocialSecurityRuleRow {
	return jurisdiction.SocialSecurityRuleRow{
		ID:            uuid.New(),
		TaxYear:       2024,
		EffectiveFrom: day("2024-01-01"),
		EmployeeRate:  decimal.RequireFromString("0.056"),
		EmployerRate:  decimal.RequireFromString("0.084"),
		Ceiling:       28_000_000,
		CeilingPeriod: "monthly",
		Basis:         "gross",
	}
}

func TestJurisdictionService_ResolveRules(t *testing.T) {
	ctx := context.Background()

	t.Run("single rule in force", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.IncomeTaxRule{guyanaIncomeRule(day("2024-01-01"), nil)}, nil)
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.SocialSecurityRuleRow{guyanaNIS()}, nil)

		rules, err := deps.service.ResolveRules(ctx, " gy ", day("2024-03-31"))
		require.NoError(t, err)

		assert.Equal(t, "GY", rules.JurisdictionCode)
		assert.Equal(t, "GYD", rules.Currency)
		assert.Equal(t, 2024, rules.TaxYear)
		require.Len(t, rules.IncomeTax.Bands, 2)
		assert.Equal(t, "First band", rules.IncomeTax.Bands[0].Name)
		require.NotNil(t, rules.SocialSecurity)
		assert.Equal(t, money.Cents(28_000_000), rules.SocialSecurity.Ceiling)

		got, err := payrolltax.CalculateWithRuleSet(rules, payrolltax.PeriodEarnings{Gross: 30_000_000}, payrolltax.FrequencyMonthly, payrolltax.Subject{})
		require.NoError(t, err)
		assert.Equal(t, money.Cents(4_250_000), got.PeriodTax)
	})

	t.Run("mid-year change picks rule by date", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()

		early := guyanaIncomeRule(day("2024-01-01"), timePtr(day("2024-06-30")))
		late := guyanaIncomeRule(day("2024-07-01"), nil)
		late.DeductionType = "flat"
		late.DeductionAmount = 200_000_000
		late.DeductionFormula = ""

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.IncomeTaxRule{early, late}, nil)
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.SocialSecurityRuleRow{guyanaNIS()}, nil)

		rules, err := deps.service.ResolveRules(ctx, "GY", day("2024-07-01"))
		require.NoError(t, err)
		assert.Equal(t, payrolltax.DeductionFlat, rules.IncomeTax.Deduction.Type)
		require.NotNil(t, rules.SocialSecurity)
	})

	t.Run("no rule for year", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2031).Return(nil, nil)
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2031).Return(nil, nil)

		_, err := deps.service.ResolveRules(ctx, "GY", day("2031-05-01"))
		assert.ErrorIs(t, err, payrolltaxerrors.ErrNoApplicableTaxRule)
	})

	t.Run("overlapping rules", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.IncomeTaxRule{
				guyanaIncomeRule(day("2024-01-01"), nil),
				guyanaIncomeRule(day("2024-03-01"), nil),
			}, nil)
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2024).Return(nil, nil)

		_, err := deps.service.ResolveRules(ctx, "GY", day("2024-04-01"))
		assert.ErrorIs(t, err, payrolltaxerrors.ErrNoApplicableTaxRule)
		assert.True(t, strings.Contains(err.Error(), "overlapping"))
	})

	t.Run("two social security rules", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.IncomeTaxRule{guyanaIncomeRule(day("2024-01-01"), nil)}, nil)
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.SocialSecurityRuleRow{guyanaNIS(), guyanaNIS()}, nil)

		_, err := deps.service.ResolveRules(ctx, "GY", day("2024-04-01"))
		assert.ErrorIs(t, err, payrolltaxerrors.ErrNoApplicableTaxRule)
		assert.Contains(t, err.Error(), "overlapping social security")
	})

	t.Run("no social security rule", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.IncomeTaxRule{guyanaIncomeRule(day("2024-01-01"), nil)}, nil)
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2024).Return(nil, nil)

		rules, err := deps.service.ResolveRules(ctx, "GY", day("2024-03-31"))
		assert.ErrorIs(t, err, payrolltaxerrors.ErrNoApplicableTaxRule)
		assert.Contains(t, err.Error(), "no social security rule")
		assert.Nil(t, rules.SocialSecurity)
	})

	t.Run("social security rule expired", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()
		expired := guyanaNIS()
		expired.EffectiveTo = timePtr(day("2024-02-29"))

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.IncomeTaxRule{guyanaIncomeRule(day("2024-01-01"), nil)}, nil)
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2024).
			Return([]jurisdiction.SocialSecurityRuleRow{expired}, nil)

		_, err := deps.service.ResolveRules(ctx, "GY", day("2024-03-31"))
		assert.ErrorIs(t, err, payrolltaxerrors.ErrNoApplicableTaxRule)
	})

	t.Run("unknown jurisdiction", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().FindByCode(gomock.Any(), "XX").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ResolveRules(ctx, "xx", day("2024-04-01"))
		assert.ErrorIs(t, err, jurisdictionerrors.ErrJurisdictionNotFound)
	})

	t.Run("inactive jurisdiction", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()
		gy.IsActive = false

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)

		_, err := deps.service.ResolveRules(ctx, "GY", day("2024-04-01"))
		assert.ErrorIs(t, err, jurisdictionerrors.ErrJurisdictionInactive)
	})

	t.Run("fiscal year starting in april", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()
		gy.FiscalYearStartMonth = 4

		rule := guyanaIncomeRule(day("2023-04-01"), nil)
		rule.TaxYear = 2023

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2023).
			Return([]jurisdiction.IncomeTaxRule{rule}, nil)
		nis := guyanaNIS()
		nis.TaxYear = 2023
		nis.EffectiveFrom = day("2023-04-01")
		deps.repo.EXPECT().FindSocialSecurityRules(gomock.Any(), gy.ID, 2023).
			Return([]jurisdiction.SocialSecurityRuleRow{nis}, nil)

		rules, err := deps.service.ResolveRules(ctx, "GY", day("2024-03-31"))
		require.NoError(t, err)
		assert.Equal(t, 2023, rules.TaxYear)
	})

	t.Run("repository failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		gy := guyana()

		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(gy, nil)
		deps.repo.EXPECT().FindIncomeTaxRules(gomock.Any(), gy.ID, 2024).Return(nil, errors.New("db down"))

		_, err := deps.service.ResolveRules(ctx, "GY", day("2024-04-01"))
		assert.EqualError(t, err, "db down")
	})
}

func TestJurisdictionService_GetAll(t *testing.T) {
	deps := setupServiceTest(t)

	deps.repo.EXPECT().FindAll(gomock.Any()).Return([]jurisdiction.TaxJurisdiction{*guyana()}, nil)

	resp, err := deps.service.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "GY", resp[0].Code)
	assert.Equal(t, "GYD", resp[0].Currency)
	assert.True(t, resp[0].IsActive)
}

func guyanaDefinition() jurisdiction.JurisdictionDefinition {
	maxFirst := decimal.NewFromInt(3_120_000)
	return jurisdiction.JurisdictionDefinition{
		Code:     "gy",
		Name:     "Guyana",
		Currency: "gyd",
		IncomeTax: []jurisdiction.IncomeTaxRuleDefinition{{
			TaxYear: 2024,
			Deduction: jurisdiction.DeductionDefinition{
				Type:    "formula",
				Formula: "MAX(1560000, {annualGross} * 0.333)",
			},
			Bands: []jurisdiction.BandDefinition{
				{Name: "First band", Min: decimal.Zero, Max: &maxFirst, Rate: decimal.RequireFromString("0.25")},
				{Name: "Second band", Min: maxFirst, Rate: decimal.RequireFromString("0.35")},
			},
		}},
		SocialSecurity: []jurisdiction.SocialSecurityRuleDefinition{{
			TaxYear:       2024,
			EmployeeRate:  decimal.RequireFromString("0.056"),
			EmployerRate:  decimal.RequireFromString("0.084"),
			Ceiling:       decimal.NewFromInt(280_000),
			CeilingPeriod: "monthly",
		}},
	}
}

func TestJurisdictionService_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("new jurisdiction", func(t *testing.T) {
		deps := setupServiceTest(t)
		var savedID uuid.UUID

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().SaveJurisdiction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, j *jurisdiction.TaxJurisdiction) error {
				assert.NotEqual(t, uuid.Nil, j.ID)
				assert.Equal(t, "GYD", j.Currency)
				assert.Equal(t, 1, j.FiscalYearStartMonth)
				assert.True(t, j.IsActive)
				savedID = j.ID
				return nil
			})
		deps.repo.EXPECT().DeleteRulesForYear(gomock.Any(), gomock.Any(), 2024).Return(nil)
		deps.repo.EXPECT().CreateIncomeTaxRule(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *jurisdiction.IncomeTaxRule) error {
				assert.Equal(t, savedID, r.JurisdictionID)
				assert.Equal(t, day("2024-01-01"), r.EffectiveFrom)
				require.Len(t, r.Bands, 2)
				assert.Equal(t, int64(312_000_000), *r.Bands[0].MaxAmount)
				assert.Equal(t, r.ID, r.Bands[1].RuleID)
				return nil
			})
		deps.repo.EXPECT().CreateSocialSecurityRule(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *jurisdiction.SocialSecurityRuleRow) error {
				assert.Equal(t, savedID, r.JurisdictionID)
				assert.Equal(t, int64(28_000_000), r.Ceiling)
				assert.Equal(t, "gross", r.Basis)
				return nil
			})

		err := deps.service.Upsert(ctx, guyanaDefinition())
		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("existing jurisdiction keeps its id", func(t *testing.T) {
		deps := setupServiceTest(t)
		existing := guyana()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(existing, nil)
		deps.repo.EXPECT().SaveJurisdiction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, j *jurisdiction.TaxJurisdiction) error {
				assert.Equal(t, existing.ID, j.ID)
				return nil
			})
		deps.repo.EXPECT().DeleteRulesForYear(gomock.Any(), existing.ID, 2024).Return(nil)
		deps.repo.EXPECT().CreateIncomeTaxRule(gomock.Any(), gomock.Any()).Return(nil)
		deps.repo.EXPECT().CreateSocialSecurityRule(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, deps.service.Upsert(ctx, guyanaDefinition()))
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByCode(gomock.Any(), "GY").Return(guyana(), nil)
		deps.repo.EXPECT().SaveJurisdiction(gomock.Any(), gomock.Any()).Return(nil)
		deps.repo.EXPECT().DeleteRulesForYear(gomock.Any(), gomock.Any(), 2024).Return(nil)
		deps.repo.EXPECT().CreateIncomeTaxRule(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

		err := deps.service.Upsert(ctx, guyanaDefinition())
		assert.EqualError(t, err, "insert failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid definition never opens a transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		def := guyanaDefinition()
		def.IncomeTax[0].Deduction.Formula = "MAX(1, "

		err := deps.service.Upsert(ctx, def)
		assert.ErrorIs(t, err, payrolltaxerrors.ErrFormulaSyntax)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

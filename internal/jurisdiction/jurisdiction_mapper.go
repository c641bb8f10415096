package jurisdiction

import (
	"sort"
	"strings"
	"time"

	"peopleflow-hr/internal/payrolltax"
	"peopleflow-hr/internal/shared/money"
)

func toEngineIncomeTaxRule(r IncomeTaxRule) payrolltax.IncomeTaxRule {
	rows := make([]TaxBandRow, len(r.Bands))
	copy(rows, r.Bands)
	sort.SliceStable(rows, func(i, k int) bool { return rows[i].BandOrder < rows[k].BandOrder })

	bands := make([]payrolltax.TaxBand, len(rows))
	for i, b := range rows {
		band := payrolltax.TaxBand{
			Order:     b.BandOrder,
			Name:      b.Name,
			MinAmount: money.Cents(b.MinAmount),
			Rate:      b.Rate,
		}
		if b.MaxAmount != nil {
			v := money.Cents(*b.MaxAmount)
			band.MaxAmount = &v
		}
		if b.FlatAmount != nil {
			v := money.Cents(*b.FlatAmount)
			band.FlatAmount = &v
		}
		bands[i] = band
	}

	return payrolltax.IncomeTaxRule{
		TaxYear: r.TaxYear,
		Bands:   bands,
		Deduction: payrolltax.PersonalDeduction{
			Type:    payrolltax.DeductionType(r.DeductionType),
			Amount:  money.Cents(r.DeductionAmount),
			Basis:   payrolltax.DeductionBasis(r.DeductionBasis),
			Formula: r.DeductionFormula,
		},
		RoundingMode:  payrolltax.RoundingMode(r.RoundingMode),
		Periodization: payrolltax.PeriodizationMode(r.Periodization),
	}
}

func toEngineSocialSecurityRule(r SocialSecurityRuleRow) payrolltax.SocialSecurityRule {
	var components []string
	if r.Components != "" {
		components = strings.Split(r.Components, ",")
	}
	return payrolltax.SocialSecurityRule{
		TaxYear:       r.TaxYear,
		EmployeeRate:  r.EmployeeRate,
		EmployerRate:  r.EmployerRate,
		Ceiling:       money.Cents(r.Ceiling),
		CeilingPeriod: payrolltax.CeilingPeriod(r.CeilingPeriod),
		Basis:         payrolltax.ContributionBasis(r.Basis),
		Components:    components,
	}
}

func mapToResponse(j TaxJurisdiction) JurisdictionResponse {
	resp := JurisdictionResponse{
		ID:                   j.ID.String(),
		Code:                 j.Code,
		Name:                 j.Name,
		Currency:             j.Currency,
		CurrencySymbol:       j.CurrencySymbol,
		FiscalYearStartMonth: j.FiscalYearStartMonth,
		IsActive:             j.IsActive,
	}
	if !j.UpdatedAt.IsZero() {
		resp.UpdatedAt = j.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(items []TaxJurisdiction) []JurisdictionResponse {
	res := make([]JurisdictionResponse, len(items))
	for i, j := range items {
		res[i] = mapToResponse(j)
	}
	return res
}

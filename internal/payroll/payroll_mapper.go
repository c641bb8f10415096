package payroll

import (
	"time"

	"peopleflow-hr/internal/payrolltax"
	"peopleflow-hr/internal/shared/money"

	"github.com/shopspring/decimal"
)

var minorPerMajor = decimal.NewFromInt(money.MinorUnitsPerMajor)

func formatCents(v int64) string {
	return money.Cents(v).String()
}

// formatMinor renders a fractional minor-unit amount in major units.
func formatMinor(v decimal.Decimal) string {
	return v.Div(minorPerMajor).StringFixed(2)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(payroll Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:                   payroll.ID.String(),
		CompanyID:            payroll.CompanyID.String(),
		EmployeeID:           payroll.EmployeeID.String(),
		EmployeeName:         payroll.EmployeeName,
		PeriodStart:          payroll.PeriodStart.Format(dateLayout),
		PeriodEnd:            payroll.PeriodEnd.Format(dateLayout),
		JurisdictionCode:     payroll.JurisdictionCode,
		Currency:             payroll.Currency,
		TaxYear:              payroll.TaxYear,
		PayFrequency:         payroll.PayFrequency,
		GrossPay:             formatCents(payroll.GrossPay),
		IncomeTax:            formatCents(payroll.IncomeTax),
		EmployeeContribution: formatCents(payroll.EmployeeContribution),
		EmployerContribution: formatCents(payroll.EmployerContribution),
		NetPay:               formatCents(payroll.NetPay),
		Status:               payroll.Status,
		CreatedBy:            payroll.CreatedBy.String(),
		ApprovedAt:           formatTime(payroll.ApprovedAt),
		PaidAt:               formatTime(payroll.PaidAt),
		CancelledAt:          formatTime(payroll.CancelledAt),
	}

	if payroll.RunID != nil {
		v := payroll.RunID.String()
		resp.RunID = &v
	}
	if payroll.ApprovedBy != nil {
		v := payroll.ApprovedBy.String()
		resp.ApprovedBy = &v
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, payroll := range payrolls {
		resp[i] = mapToResponse(payroll)
	}
	return resp
}

func mapToBreakdownResponse(payroll Payroll) PayrollBreakdownResponse {
	earnings := make([]PayrollComponentResponse, len(payroll.Components))
	for i, c := range payroll.Components {
		earnings[i] = PayrollComponentResponse{
			ComponentType: c.ComponentType,
			ComponentName: c.ComponentName,
			Amount:        formatCents(c.Amount),
			Notes:         c.Notes,
		}
	}

	bands := make([]TaxBandResponse, len(payroll.TaxBands))
	for i, b := range payroll.TaxBands {
		bands[i] = TaxBandResponse{
			Order:      b.BandOrder,
			BandName:   b.BandName,
			Amount:     formatMinor(b.Amount),
			Rate:       b.Rate.String(),
			FlatAmount: formatMinor(b.FlatAmount),
			Tax:        formatMinor(b.Tax),
		}
	}

	return PayrollBreakdownResponse{
		PayrollID:   payroll.ID.String(),
		EmployeeID:  payroll.EmployeeID.String(),
		PeriodStart: payroll.PeriodStart.Format(dateLayout),
		PeriodEnd:   payroll.PeriodEnd.Format(dateLayout),
		Status:      payroll.Status,
		Earnings:    earnings,
		Tax: TaxBreakdownResponse{
			JurisdictionCode:      payroll.JurisdictionCode,
			Currency:              payroll.Currency,
			TaxYear:               payroll.TaxYear,
			PayFrequency:          payroll.PayFrequency,
			PeriodsPerYear:        payroll.PeriodsPerYear.String(),
			GrossPay:              formatCents(payroll.GrossPay),
			AnnualGross:           formatCents(payroll.AnnualGross),
			PersonalDeduction:     formatCents(payroll.PersonalDeduction),
			TaxableIncome:         formatCents(payroll.TaxableIncome),
			TaxBands:              bands,
			AnnualTax:             formatMinor(payroll.AnnualTax),
			IncomeTax:             formatCents(payroll.IncomeTax),
			ContributableEarnings: formatCents(payroll.ContributableEarnings),
			EmployeeContribution:  formatCents(payroll.EmployeeContribution),
			EmployerContribution:  formatCents(payroll.EmployerContribution),
			NetPay:                formatCents(payroll.NetPay),
			RoundingMode:          payroll.RoundingMode,
			Periodization:         payroll.Periodization,
		},
	}
}

func mapCalculationToResponse(
	rules payrolltax.RuleSet,
	frequency string,
	b payrolltax.PayslipTaxBreakdown,
) TaxBreakdownResponse {
	bands := make([]TaxBandResponse, len(b.TaxableBands))
	for i, band := range b.TaxableBands {
		bands[i] = TaxBandResponse{
			Order:      band.Order,
			BandName:   band.BandName,
			Amount:     formatMinor(band.Amount),
			Rate:       band.Rate.String(),
			FlatAmount: formatMinor(band.FlatAmount),
			Tax:        formatMinor(band.Tax),
		}
	}

	return TaxBreakdownResponse{
		JurisdictionCode:      rules.JurisdictionCode,
		Currency:              rules.Currency,
		TaxYear:               rules.TaxYear,
		PayFrequency:          frequency,
		PeriodsPerYear:        b.PeriodsPerYear.String(),
		GrossPay:              b.PeriodGross.String(),
		AnnualGross:           b.AnnualGross.String(),
		PersonalDeduction:     b.PersonalDeduction.String(),
		TaxableIncome:         b.TaxableIncome.String(),
		TaxBands:              bands,
		AnnualTax:             formatMinor(b.AnnualTax),
		IncomeTax:             b.PeriodTax.String(),
		ContributableEarnings: b.ContributableEarnings.String(),
		EmployeeContribution:  b.EmployeeContribution.String(),
		EmployerContribution:  b.EmployerContribution.String(),
		NetPay:                b.NetPay.String(),
		RoundingMode:          string(b.RoundingMode),
		Periodization:         string(b.Periodization),
	}
}

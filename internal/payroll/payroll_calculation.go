package payroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"peopleflow-hr/internal/employeesalary"
	payrollerrors "peopleflow-hr/internal/payroll/errors"
	"peopleflow-hr/internal/payrolltax"
	"peopleflow-hr/internal/shared/money"

	"github.com/google/uuid"
)

const (
	componentBaseSalary = "base_salary"
	componentAllowance  = "allowance"
)

type payPeriod struct {
	Start time.Time
	End   time.Time
}

func parsePeriod(start, end string) (payPeriod, error) {
	periodStart, err := parseDate(start)
	if err != nil {
		return payPeriod{}, err
	}
	periodEnd, err := parseDate(end)
	if err != nil {
		return payPeriod{}, err
	}
	if periodStart.After(periodEnd) {
		return payPeriod{}, payrollerrors.ErrInvalidDateRange
	}
	return payPeriod{Start: periodStart, End: periodEnd}, nil
}

func (p payPeriod) String() string {
	return p.Start.Format(dateLayout) + ".." + p.End.Format(dateLayout)
}

func (p payPeriod) subject(employeeID string) payrolltax.Subject {
	return payrolltax.Subject{EmployeeID: employeeID, Period: p.String()}
}

// earning is one named line of period gross. Names double as the component
// keys social security rules select on.
type earning struct {
	componentType string
	name          string
	amount        money.Cents
	notes         *string
}

func parseEarnings(inputs []EarningInput) ([]earning, error) {
	out := make([]earning, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, payrollerrors.ErrInvalidComponent
		}
		amount, err := parseMoney(in.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, earning{
			componentType: ComponentTypeEarning,
			name:          name,
			amount:        amount,
			notes:         in.Notes,
		})
	}
	return out, nil
}

func parseMoney(v string) (money.Cents, error) {
	amount, err := money.ParseMajor(v)
	if err != nil || amount.IsNegative() {
		return 0, fmt.Errorf("%w: %q", payrollerrors.ErrInvalidMoneyValue, v)
	}
	return amount, nil
}

func salaryEarnings(salary employeesalary.EmployeeSalary, extra []earning) []earning {
	out := []earning{{
		componentType: ComponentTypeBaseSalary,
		name:          componentBaseSalary,
		amount:        money.Cents(salary.BaseSalary),
	}}
	if salary.Allowance != 0 {
		out = append(out, earning{
			componentType: ComponentTypeAllowance,
			name:          componentAllowance,
			amount:        money.Cents(salary.Allowance),
		})
	}
	return append(out, extra...)
}

func toPeriodEarnings(earnings []earning) payrolltax.PeriodEarnings {
	pe := payrolltax.PeriodEarnings{Components: make(map[string]money.Cents, len(earnings))}
	for _, e := range earnings {
		pe.Gross += e.amount
		pe.Components[e.name] += e.amount
	}
	return pe
}

type payrollDraft struct {
	companyID uuid.UUID
	createdBy uuid.UUID
	runID     *uuid.UUID
	salary    employeesalary.EmployeeSalary
	period    payPeriod
	rules     payrolltax.RuleSet
	earnings  []earning
	breakdown payrolltax.PayslipTaxBreakdown
}

func newPayroll(d payrollDraft) *Payroll {
	id := uuid.New()
	b := d.breakdown

	payroll := &Payroll{
		ID:                    id,
		CompanyID:             d.companyID,
		EmployeeID:            d.salary.EmployeeID,
		EmployeeName:          d.salary.EmployeeName,
		RunID:                 d.runID,
		PeriodStart:           d.period.Start,
		PeriodEnd:             d.period.End,
		JurisdictionCode:      d.rules.JurisdictionCode,
		Currency:              d.rules.Currency,
		TaxYear:               d.rules.TaxYear,
		PayFrequency:          d.salary.PayFrequency,
		PeriodsPerYear:        b.PeriodsPerYear,
		RoundingMode:          string(b.RoundingMode),
		Periodization:         string(b.Periodization),
		AnnualGross:           int64(b.AnnualGross),
		PersonalDeduction:     int64(b.PersonalDeduction),
		TaxableIncome:         int64(b.TaxableIncome),
		AnnualTax:             b.AnnualTax,
		IncomeTax:             int64(b.PeriodTax),
		GrossPay:              int64(b.PeriodGross),
		ContributableEarnings: int64(b.ContributableEarnings),
		EmployeeContribution:  int64(b.EmployeeContribution),
		EmployerContribution:  int64(b.EmployerContribution),
		NetPay:                int64(b.NetPay),
		Status:                StatusDraft,
		CreatedBy:             d.createdBy,
	}

	for _, e := range d.earnings {
		switch e.componentType {
		case ComponentTypeBaseSalary:
			payroll.BaseSalary += int64(e.amount)
		case ComponentTypeAllowance:
			payroll.Allowance += int64(e.amount)
		default:
			payroll.OtherEarnings += int64(e.amount)
		}
		payroll.Components = append(payroll.Components, PayrollComponent{
			ID:            uuid.New(),
			PayrollID:     id,
			CompanyID:     d.companyID,
			ComponentType: e.componentType,
			ComponentName: e.name,
			Amount:        int64(e.amount),
			Notes:         e.notes,
		})
	}

	for _, band := range b.TaxableBands {
		payroll.TaxBands = append(payroll.TaxBands, PayrollTaxBand{
			ID:         uuid.New(),
			PayrollID:  id,
			BandOrder:  band.Order,
			BandName:   band.BandName,
			Amount:     band.Amount,
			Rate:       band.Rate,
			FlatAmount: band.FlatAmount,
			Tax:        band.Tax,
		})
	}

	return payroll
}

// Preview runs the engine without touching payroll storage.
func (s *service) Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error) {
	asOf := s.now().UTC().Truncate(24 * time.Hour)
	if req.AsOf != "" {
		parsed, err := parseDate(req.AsOf)
		if err != nil {
			return PreviewResponse{}, err
		}
		asOf = parsed
	}

	gross, err := parseMoney(req.GrossPay)
	if err != nil {
		return PreviewResponse{}, err
	}
	components, err := parseEarnings(req.Components)
	if err != nil {
		return PreviewResponse{}, err
	}

	earnings := payrolltax.PeriodEarnings{Gross: gross}
	if len(components) > 0 {
		named := toPeriodEarnings(components)
		if named.Gross > gross {
			return PreviewResponse{}, payrollerrors.ErrComponentsExceedGross
		}
		earnings.Components = named.Components
	}

	code := strings.ToUpper(strings.TrimSpace(req.JurisdictionCode))
	rules, err := s.rules.ResolveRules(ctx, code, asOf)
	if err != nil {
		return PreviewResponse{}, err
	}

	breakdown, err := payrolltax.CalculateWithRuleSet(
		rules,
		earnings,
		payrolltax.PayFrequency(strings.ToLower(req.PayFrequency)),
		payrolltax.Subject{Period: asOf.Format(dateLayout)},
	)
	if err != nil {
		return PreviewResponse{}, err
	}

	return PreviewResponse{
		AsOf:                 asOf.Format(dateLayout),
		TaxBreakdownResponse: mapCalculationToResponse(rules, req.PayFrequency, breakdown),
	}, nil
}

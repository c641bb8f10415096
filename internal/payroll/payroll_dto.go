package payroll

import "time"

// Money in requests and responses is a decimal string in major units.

type EarningInput struct {
	Name   string  `json:"name" binding:"required,max=120"`
	Amount string  `json:"amount" binding:"required"`
	Notes  *string `json:"notes"`
}

type PreviewRequest struct {
	JurisdictionCode string         `json:"jurisdiction_code" binding:"required,max=8"`
	GrossPay         string         `json:"gross_pay" binding:"required"`
	PayFrequency     string         `json:"pay_frequency" binding:"required,oneof=annual monthly semimonthly biweekly weekly"`
	AsOf             string         `json:"as_of"`
	Components       []EarningInput `json:"components" binding:"omitempty,dive"`
}

type CreatePayrollRequest struct {
	EmployeeID         string         `json:"employee_id" binding:"required,uuid"`
	PeriodStart        string         `json:"period_start" binding:"required"`
	PeriodEnd          string         `json:"period_end" binding:"required"`
	AdditionalEarnings []EarningInput `json:"additional_earnings" binding:"omitempty,dive"`
}

type RunPayrollRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	// RunID is set by the run consumer to reuse the id handed out at request time.
	RunID string `json:"-"`
}

type GetPayrollsFilterRequest struct {
	Period     string `form:"period"`
	Status     string `form:"status"`
	EmployeeID string `form:"employee_id"`
}

type PayrollQueryFilter struct {
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Status      *string
	EmployeeID  *string
}

type TaxBandResponse struct {
	Order      int    `json:"order"`
	BandName   string `json:"band_name"`
	Amount     string `json:"amount"`
	Rate       string `json:"rate"`
	FlatAmount string `json:"flat_amount"`
	Tax        string `json:"tax"`
}

type TaxBreakdownResponse struct {
	JurisdictionCode      string            `json:"jurisdiction_code"`
	Currency              string            `json:"currency"`
	TaxYear               int               `json:"tax_year"`
	PayFrequency          string            `json:"pay_frequency"`
	PeriodsPerYear        string            `json:"periods_per_year"`
	GrossPay              string            `json:"gross_pay"`
	AnnualGross           string            `json:"annual_gross"`
	PersonalDeduction     string            `json:"personal_deduction"`
	TaxableIncome         string            `json:"taxable_income"`
	TaxBands              []TaxBandResponse `json:"tax_bands"`
	AnnualTax             string            `json:"annual_tax"`
	IncomeTax             string            `json:"income_tax"`
	ContributableEarnings string            `json:"contributable_earnings"`
	EmployeeContribution  string            `json:"employee_contribution"`
	EmployerContribution  string            `json:"employer_contribution"`
	NetPay                string            `json:"net_pay"`
	RoundingMode          string            `json:"rounding_mode"`
	Periodization         string            `json:"periodization"`
}

type PreviewResponse struct {
	AsOf string `json:"as_of"`
	TaxBreakdownResponse
}

type PayrollResponse struct {
	ID                   string  `json:"id"`
	CompanyID            string  `json:"company_id"`
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         string  `json:"employee_name,omitempty"`
	RunID                *string `json:"run_id,omitempty"`
	PeriodStart          string  `json:"period_start"`
	PeriodEnd            string  `json:"period_end"`
	JurisdictionCode     string  `json:"jurisdiction_code"`
	Currency             string  `json:"currency"`
	TaxYear              int     `json:"tax_year"`
	PayFrequency         string  `json:"pay_frequency"`
	GrossPay             string  `json:"gross_pay"`
	IncomeTax            string  `json:"income_tax"`
	EmployeeContribution string  `json:"employee_contribution"`
	EmployerContribution string  `json:"employer_contribution"`
	NetPay               string  `json:"net_pay"`
	Status               string  `json:"status"`
	CreatedBy            string  `json:"created_by"`
	ApprovedBy           *string `json:"approved_by,omitempty"`
	ApprovedAt           *string `json:"approved_at,omitempty"`
	PaidAt               *string `json:"paid_at,omitempty"`
	CancelledAt          *string `json:"cancelled_at,omitempty"`
}

type PayrollComponentResponse struct {
	ComponentType string  `json:"component_type"`
	ComponentName string  `json:"component_name"`
	Amount        string  `json:"amount"`
	Notes         *string `json:"notes,omitempty"`
}

type PayrollBreakdownResponse struct {
	PayrollID   string                     `json:"payroll_id"`
	EmployeeID  string                     `json:"employee_id"`
	PeriodStart string                     `json:"period_start"`
	PeriodEnd   string                     `json:"period_end"`
	Status      string                     `json:"status"`
	Earnings    []PayrollComponentResponse `json:"earnings"`
	Tax         TaxBreakdownResponse       `json:"tax"`
}

// RunFailure reports one employee the run could not pay.
type RunFailure struct {
	EmployeeID       string `json:"employee_id"`
	EmployeeName     string `json:"employee_name,omitempty"`
	JurisdictionCode string `json:"jurisdiction_code,omitempty"`
	Stage            string `json:"stage"`
	Code             string `json:"code"`
	Reason           string `json:"reason"`
}

type RunPayrollResponse struct {
	RunID       string            `json:"run_id"`
	PeriodStart string            `json:"period_start"`
	PeriodEnd   string            `json:"period_end"`
	Employees   int               `json:"employees"`
	Created     int               `json:"created"`
	Skipped     int               `json:"skipped"`
	Failed      int               `json:"failed"`
	Payrolls    []PayrollResponse `json:"payrolls"`
	Failures    []RunFailure      `json:"failures"`
}

type RunRequestedResponse struct {
	RunID       string `json:"run_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

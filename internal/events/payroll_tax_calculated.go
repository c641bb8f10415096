package events

import "time"

const PayrollTaxCalculatedTopic = "hr.payroll.tax.calculated.v1"

// PayrollTaxCalculatedEvent is emitted once per persisted payroll.
// Amounts are minor units of Currency.
type PayrollTaxCalculatedEvent struct {
	EventType            string    `json:"event_type"`
	PayrollID            string    `json:"payroll_id"`
	CompanyID            string    `json:"company_id"`
	EmployeeID           string    `json:"employee_id"`
	RunID                string    `json:"run_id,omitempty"`
	JurisdictionCode     string    `json:"jurisdiction_code"`
	TaxYear              int       `json:"tax_year"`
	Currency             string    `json:"currency"`
	PeriodStart          string    `json:"period_start"`
	PeriodEnd            string    `json:"period_end"`
	GrossPay             int64     `json:"gross_pay"`
	IncomeTax            int64     `json:"income_tax"`
	EmployeeContribution int64     `json:"employee_contribution"`
	EmployerContribution int64     `json:"employer_contribution"`
	NetPay               int64     `json:"net_pay"`
	OccurredAt           time.Time `json:"occurred_at"`
}

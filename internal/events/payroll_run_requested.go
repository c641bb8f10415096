package events

import "time"

const PayrollRunRequestedTopic = "hr.payroll.run.requested.v1"

type PayrollRunRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RunID       string    `json:"run_id"`
	CompanyID   string    `json:"company_id"`
	RequestedBy string    `json:"requested_by"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	OccurredAt  time.Time `json:"occurred_at"`
}

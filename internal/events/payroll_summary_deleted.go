package events

import "time"

const PayrollSummaryDeletedTopic = "hr.payroll.summary.deleted.v1"

type PayrollSummaryDeletedEvent struct {
	EventType   string    `json:"event_type"`
	EmployeeID  string    `json:"employee_id"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	OccurredAt  time.Time `json:"occurred_at"`
}

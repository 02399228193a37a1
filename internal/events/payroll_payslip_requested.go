package events

import "time"

const PayrollPayslipRequestedTopic = "hr.payroll.payslip.requested.v1"

type PayrollPayslipRequestedEvent struct {
	EventType     string    `json:"event_type"`
	SummaryID     string    `json:"summary_id"`
	EmployeeID    string    `json:"employee_id"`
	PeriodStart   string    `json:"period_start"`
	PeriodEnd     string    `json:"period_end"`
	PayslipNumber int       `json:"payslip_number"`
	RequestedBy   string    `json:"requested_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

package events

import "time"

const PayrollSummaryGeneratedTopic = "hr.payroll.summary.generated.v1"

// PayrollSummaryGeneratedEvent carries the summary snapshot downstream
// consumers (statistics, exports) need without a DB round trip.
type PayrollSummaryGeneratedEvent struct {
	EventType            string    `json:"event_type"`
	SummaryID            string    `json:"summary_id"`
	EmployeeID           string    `json:"employee_id"`
	PeriodStart          string    `json:"period_start"`
	PeriodEnd            string    `json:"period_end"`
	PayslipNumber        int64     `json:"payslip_number"`
	BasicPay             string    `json:"basic_pay"`
	OvertimePay          string    `json:"overtime_pay"`
	HolidayBonus         string    `json:"holiday_bonus"`
	NightDifferentialPay string    `json:"night_differential_pay"`
	GrossPay             string    `json:"gross_pay"`
	TotalDeductions      string    `json:"total_deductions"`
	NetPay               string    `json:"net_pay"`
	DaysWorked           int       `json:"days_worked"`
	Absences             int       `json:"absences"`
	OccurredAt           time.Time `json:"occurred_at"`
}

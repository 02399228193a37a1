package compensation

// OverrideCompensationRequest freezes a day with manually corrected
// numbers. Omitted fields keep their computed values; gross and net are
// re-derived from the components unless given explicitly.
type OverrideCompensationRequest struct {
	Absence            *bool   `json:"absence"`
	HoursWorked        *string `json:"hours_worked"`
	BasicPay           *string `json:"basic_pay"`
	OvertimePay        *string `json:"overtime_pay"`
	HolidayBonus       *string `json:"holiday_bonus"`
	NightDiffPay       *string `json:"night_diff_pay"`
	LateDeduction      *string `json:"late_deduction"`
	UndertimeDeduction *string `json:"undertime_deduction"`
	Deductions         *string `json:"deductions"`
	GrossPay           *string `json:"gross_pay"`
	NetPay             *string `json:"net_pay"`
}

type RecomputeRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Year       int    `json:"year" binding:"required"`
	Month      int    `json:"month" binding:"required"`
	Force      bool   `json:"force"`
}

type RecomputeAllRequest struct {
	Year  int  `json:"year" binding:"required"`
	Month int  `json:"month" binding:"required"`
	Force bool `json:"force"`
}

type RecomputeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// RecomputeReport is the batch outcome: one employee's failure never
// aborts the others.
type RecomputeReport struct {
	Succeeded int                `json:"succeeded"`
	Failed    []RecomputeFailure `json:"failed"`
}

type CompensationResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	DayType    string `json:"day_type"`
	Absence    bool   `json:"absence"`

	HoursWorked string `json:"hours_worked"`

	LateMinutes      int `json:"late_minutes"`
	UndertimeMinutes int `json:"undertime_minutes"`
	OvertimeMinutes  int `json:"overtime_minutes"`

	LateDeduction      string `json:"late_deduction"`
	UndertimeDeduction string `json:"undertime_deduction"`
	OvertimePay        string `json:"overtime_pay"`

	NightDiffHours string `json:"night_diff_hours"`
	NightDiffPay   string `json:"night_diff_pay"`

	HolidayBonus            string `json:"holiday_bonus"`
	HolidayMultiplierSource string `json:"holiday_multiplier_source,omitempty"`

	BasicPay   string `json:"basic_pay"`
	GrossPay   string `json:"gross_pay"`
	Deductions string `json:"deductions"`
	NetPay     string `json:"net_pay"`

	ManualOverride bool   `json:"manual_override"`
	ComputeMode    string `json:"compute_mode"`
}

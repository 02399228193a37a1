package payroll

// PeriodDeductionsRequest replaces the derived period deductions
// wholesale: when present, statutory bases are not read from the
// employee and no installments are taken from the ledger. Empty
// strings read as zero.
type PeriodDeductionsRequest struct {
	SSS         string `json:"sss"`
	PhilHealth  string `json:"phil_health"`
	PagIbig     string `json:"pag_ibig"`
	CashAdvance string `json:"cash_advance"`
	Shorts      string `json:"shorts"`
	Loans       string `json:"loans"`
	Others      string `json:"others"`
}

type GeneratePayrollRequest struct {
	EmployeeID string                   `json:"employee_id" binding:"required,uuid"`
	StartDate  string                   `json:"start_date" binding:"required"`
	EndDate    string                   `json:"end_date" binding:"required"`
	Deductions *PeriodDeductionsRequest `json:"deductions"`
}

type GenerateAllRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type GenerateFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// GenerateReport is the batch outcome: one failure entry per employee
// whose generation failed, everyone else counted as succeeded.
type GenerateReport struct {
	Succeeded int               `json:"succeeded"`
	Failed    []GenerateFailure `json:"failed"`
}

type CreditBackRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

type PayrollSummaryResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	PayslipNumber int64  `json:"payslip_number"`

	DailyRate  string `json:"daily_rate"`
	DaysWorked int    `json:"days_worked"`
	Absences   int    `json:"absences"`

	BasicPay             string `json:"basic_pay"`
	OvertimePay          string `json:"overtime_pay"`
	HolidayBonus         string `json:"holiday_bonus"`
	NightDifferentialPay string `json:"night_differential_pay"`
	LateDeduction        string `json:"late_deduction"`
	UndertimeDeduction   string `json:"undertime_deduction"`

	SSS                   string `json:"sss"`
	PhilHealth            string `json:"phil_health"`
	PagIbig               string `json:"pag_ibig"`
	CashAdvanceDeductions string `json:"cash_advance_deductions"`
	ShortDeductions       string `json:"short_deductions"`
	LoanDeductions        string `json:"loan_deductions"`
	OtherDeductions       string `json:"other_deductions"`

	GrossPay        string `json:"gross_pay"`
	TotalDeductions string `json:"total_deductions"`
	NetPay          string `json:"net_pay"`
}

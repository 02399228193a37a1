package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollSummary is one employee's aggregated pay for an exact period.
// The (employee, period_start, period_end) key is unique; regenerating
// the same period overwrites the row in place, keeping its id and
// payslip number stable.
type PayrollSummary struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_summary_employee_period,unique"`
	PeriodStart time.Time `gorm:"type:date;not null;index:idx_summary_employee_period,unique"`
	PeriodEnd   time.Time `gorm:"type:date;not null;index:idx_summary_employee_period,unique"`

	PayslipNumber int64 `gorm:"not null;default:0"`

	DailyRate  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DaysWorked int             `gorm:"not null;default:0"`
	Absences   int             `gorm:"not null;default:0"`

	BasicPay             decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	OvertimePay          decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	HolidayBonus         decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	NightDifferentialPay decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	LateDeduction        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	UndertimeDeduction   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`

	SSS                   decimal.Decimal `gorm:"column:sss;type:numeric(14,4);not null;default:0"`
	PhilHealth            decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	PagIbig               decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	CashAdvanceDeductions decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	ShortDeductions       decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	LoanDeductions        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	OtherDeductions       decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`

	GrossPay        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	NetPay          decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayrollSummary) TableName() string {
	return "payroll_summaries"
}

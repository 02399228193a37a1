package compensation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DayTypeRegular = "REGULAR"
	DayTypeHoliday = "HOLIDAY"
	DayTypeRest    = "REST"

	ComputeModeComputed   = "COMPUTED"
	ComputeModeOverridden = "OVERRIDDEN"

	// Where the holiday multiplier came from when a bonus was paid.
	MultiplierSourceSettings = "SETTINGS"
	MultiplierSourceHoliday  = "HOLIDAY"
)

// Compensation is one employee-day of computed pay. Rows flagged with
// ManualOverride are frozen: recomputation leaves them untouched unless
// forced, and ComputeMode records which path produced the numbers.
type Compensation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_compensation_employee_date,unique"`
	Date       time.Time `gorm:"type:date;not null;index:idx_compensation_employee_date,unique"`

	DayType string `gorm:"type:varchar(16);not null;default:'REGULAR'"`
	Absence bool   `gorm:"not null;default:false"`

	HoursWorked decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`

	LateMinutes      int `gorm:"not null;default:0"`
	UndertimeMinutes int `gorm:"not null;default:0"`
	OvertimeMinutes  int `gorm:"not null;default:0"`

	LateDeduction      decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	UndertimeDeduction decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	OvertimePay        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`

	NightDiffHours decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	NightDiffPay   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`

	HolidayBonus            decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	HolidayMultiplierSource string          `gorm:"type:varchar(16)"`

	BasicPay   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	GrossPay   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Deductions decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	NetPay     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`

	ManualOverride bool   `gorm:"not null;default:false"`
	ComputeMode    string `gorm:"type:varchar(16);not null;default:'COMPUTED'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Compensation) TableName() string {
	return "compensations"
}

package deduction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	KindCashAdvance = "CASH_ADVANCE"
	KindShort       = "SHORT"
	KindLoan        = "LOAN"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusPaid     = "PAID"
)

// DeductionRecord is money owed by an employee: a cash advance, a cash
// short, or a loan. The balance only ever moves through installment
// applications, keeping 0 <= remaining_unpaid <= amount at all times.
type DeductionRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_deduction_records_employee"`
	Kind       string    `gorm:"type:varchar(20);not null"`
	Date       time.Time `gorm:"type:date;not null"`

	Amount          decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	RemainingUnpaid decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	// InstallmentAmount of zero means the whole balance is taken in one
	// payroll period.
	InstallmentAmount decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`

	Status string `gorm:"type:varchar(16);not null;default:'PENDING'"`
	Reason string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (DeductionRecord) TableName() string {
	return "deduction_records"
}

func ValidKind(kind string) bool {
	switch kind {
	case KindCashAdvance, KindShort, KindLoan:
		return true
	}
	return false
}

// DueAmount is what one payroll period takes: the configured installment,
// clamped to whatever balance is left.
func (d DeductionRecord) DueAmount() decimal.Decimal {
	if d.InstallmentAmount.Sign() <= 0 || d.InstallmentAmount.GreaterThan(d.RemainingUnpaid) {
		return d.RemainingUnpaid
	}
	return d.InstallmentAmount
}

// InstallmentApplication is the ledger of balance movements. One row per
// (record, period) at most, so regenerating a payroll period reuses the
// recorded amount instead of decrementing twice, and credit-back knows
// exactly what to restore. Kind is snapshotted for per-kind summing.
type InstallmentApplication struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeductionRecordID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_installment_record_period"`
	EmployeeID        uuid.UUID `gorm:"type:uuid;not null;index:idx_installment_applications_employee"`
	Kind              string    `gorm:"type:varchar(20);not null"`

	PeriodStart time.Time `gorm:"type:date;not null;uniqueIndex:uq_installment_record_period"`
	PeriodEnd   time.Time `gorm:"type:date;not null;uniqueIndex:uq_installment_record_period"`

	AppliedAmount decimal.Decimal `gorm:"type:numeric(14,4);not null"`

	CreatedAt time.Time
}

func (InstallmentApplication) TableName() string {
	return "installment_applications"
}

package statistics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthStatistics is the folded view of every payroll summary whose
// period starts in the given month. Rows are recomputed from the
// summaries table whenever a summary is generated or deleted, so the
// totals never drift from the source of truth.
type MonthStatistics struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Year            int             `gorm:"not null;index:idx_statistics_year_month,unique" json:"year"`
	Month           int             `gorm:"not null;index:idx_statistics_year_month,unique" json:"month"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(16,4);not null;default:0" json:"total_amount"`
	TotalDaysWorked int             `gorm:"not null;default:0" json:"total_days_worked"`
	TotalAbsences   int             `gorm:"not null;default:0" json:"total_absences"`
	EmployeeCount   int             `gorm:"not null;default:0" json:"employee_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (MonthStatistics) TableName() string {
	return "month_statistics"
}

package holiday

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TypeRegular = "REGULAR"
	TypeSpecial = "SPECIAL"
)

// Holiday covers a date range; a single-day holiday has StartDate ==
// EndDate. Multiplier is the pay factor for REGULAR holidays unless the
// calculation settings override it.
type Holiday struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string          `gorm:"type:varchar(120);not null"`
	Type       string          `gorm:"type:varchar(20);not null;default:'REGULAR'"`
	StartDate  time.Time       `gorm:"type:date;not null;index:idx_holidays_dates"`
	EndDate    time.Time       `gorm:"type:date;not null;index:idx_holidays_dates"`
	Multiplier decimal.Decimal `gorm:"type:numeric(6,4);not null;default:2.0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Holiday) TableName() string {
	return "holidays"
}

// Covers reports whether the holiday range includes the calendar date.
// Comparison is date-only.
func (h Holiday) Covers(date time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(h.StartDate.Year(), h.StartDate.Month(), h.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(h.EndDate.Year(), h.EndDate.Month(), h.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(start) && !d.After(end)
}

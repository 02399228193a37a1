package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationSettings is a single-row table. Multipliers left at zero
// defer to the Holiday record's own multiplier; empty formula strings
// defer to the built-in formulas.
type CalculationSettings struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	RegularHolidayMultiplier decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0"`
	SpecialHolidayMultiplier decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0"`

	GrossPayFormula        string `gorm:"type:text"`
	TotalDeductionsFormula string `gorm:"type:text"`
	NetPayFormula          string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CalculationSettings) TableName() string {
	return "calculation_settings"
}

// HolidayMultiplierFor returns the configured override for the holiday
// type, or zero when the Holiday record's value should win.
func (s CalculationSettings) HolidayMultiplierFor(holidayType string) decimal.Decimal {
	switch holidayType {
	case "REGULAR":
		return s.RegularHolidayMultiplier
	case "SPECIAL":
		return s.SpecialHolidayMultiplier
	}
	return decimal.Zero
}

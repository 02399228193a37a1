package employmenttype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmploymentType bundles the schedule and the computation thresholds the
// compensation calculator reads for everyone assigned to it.
type EmploymentType struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_employment_type_name"`
	RequiresTimeTracking bool      `gorm:"not null;default:true"`

	// HoursProportional pays gross from hours worked instead of the flat
	// daily rate on worked days.
	HoursProportional bool `gorm:"not null;default:false"`

	GracePeriodMinutes       int `gorm:"not null;default:5"`
	UnpaidBreakMinutes       int `gorm:"not null;default:60"`
	OvertimeThresholdMinutes int `gorm:"not null;default:0"`
	OvertimeCapMinutes       int `gorm:"not null;default:0"` // 0 means uncapped

	OvertimeMultiplier decimal.Decimal `gorm:"type:numeric(6,4);not null;default:1.25"`

	NightWindowStart    string          `gorm:"type:varchar(5);not null;default:'22:00'"`
	NightWindowEnd      string          `gorm:"type:varchar(5);not null;default:'06:00'"`
	NightDiffMultiplier decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0.10"`

	Schedule []EmploymentTypeSchedule `gorm:"foreignKey:EmploymentTypeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (EmploymentType) TableName() string {
	return "employment_types"
}

// EmploymentTypeSchedule is the per-weekday window. Weekday follows
// time.Weekday, 0=Sunday .. 6=Saturday. Exactly one row per weekday per
// employment type.
type EmploymentTypeSchedule struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmploymentTypeID uuid.UUID `gorm:"type:uuid;not null;index:idx_employment_type_weekday,unique"`
	Weekday          int       `gorm:"not null;index:idx_employment_type_weekday,unique"`
	TimeIn           string    `gorm:"type:varchar(5)"`
	TimeOut          string    `gorm:"type:varchar(5)"`
	IsRestDay        bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (EmploymentTypeSchedule) TableName() string {
	return "employment_type_schedules"
}

package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Employee struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber   string          `gorm:"type:varchar(32);not null;uniqueIndex:uq_employee_number"`
	FullName         string          `gorm:"type:varchar(255);not null"`
	EmploymentTypeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	DailyRate        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SSSContribution  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PhilHealth       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PagIbig          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status           string          `gorm:"type:varchar(16);not null;default:'ACTIVE';index"`
	HireDate         time.Time       `gorm:"type:date;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Employee) TableName() string {
	return "employees"
}

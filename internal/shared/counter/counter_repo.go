package counter

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// CounterSeries backs named monotonic sequences, e.g. payslip numbers
// per year ("payslip-2025").
type CounterSeries struct {
	Series    string    `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CounterSeries) TableName() string {
	return "counter_series"
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, series string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, series string) (int64, error) {
	var nextValue int64

	// Raw SQL for an atomic UPSERT and increment, races resolve on the row lock
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counter_series (series, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (series) DO UPDATE
		SET last_value = counter_series.last_value + 1, updated_at = now()
		RETURNING last_value
	`, series).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

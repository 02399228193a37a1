package statistics

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=statistics_repo.go -destination=mock/statistics_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert inserts the month row or overwrites the existing row for
	// the same (year, month) key.
	Upsert(ctx context.Context, ms *MonthStatistics) error
	FindByYear(ctx context.Context, year int) ([]MonthStatistics, error)
	DeleteByYearMonth(ctx context.Context, year, month int) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Upsert(ctx context.Context, ms *MonthStatistics) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "year"},
				{Name: "month"},
			},
			UpdateAll: true,
		}).
		Create(ms).Error
}

func (r *repository) FindByYear(ctx context.Context, year int) ([]MonthStatistics, error) {
	var rows []MonthStatistics
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("month ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteByYearMonth(ctx context.Context, year, month int) error {
	return r.db.WithContext(ctx).
		Delete(&MonthStatistics{}, "year = ? AND month = ?", year, month).Error
}

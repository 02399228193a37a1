package payroll

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert inserts the summary or, when its (employee, period) key
	// already exists, overwrites that row in place.
	Upsert(ctx context.Context, summary *PayrollSummary) error
	FindByID(ctx context.Context, id string) (*PayrollSummary, error)
	FindByKey(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (*PayrollSummary, error)
	// FindAll filters by period start: year 0 means everything,
	// month 0 means the whole year.
	FindAll(ctx context.Context, employeeID string, year int, month time.Month) ([]PayrollSummary, error)
	// FindByPeriod lists every employee's summary for the exact period,
	// in payslip number order.
	FindByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]PayrollSummary, error)
	Delete(ctx context.Context, id string) error
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

func (r *repository) Upsert(ctx context.Context, summary *PayrollSummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"},
				{Name: "period_start"},
				{Name: "period_end"},
			},
			UpdateAll: true,
		}).
		Create(summary).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollSummary, error) {
	var summary PayrollSummary
	err := r.db.WithContext(ctx).First(&summary, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) FindByKey(
	ctx context.Context,
	employeeID string,
	periodStart, periodEnd time.Time,
) (*PayrollSummary, error) {
	var summary PayrollSummary
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND period_start = ? AND period_end = ?", employeeID, periodStart, periodEnd).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *repository) FindAll(
	ctx context.Context,
	employeeID string,
	year int,
	month time.Month,
) ([]PayrollSummary, error) {
	q := r.db.WithContext(ctx)
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	if year > 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		if month > 0 {
			from = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(0, 1, 0)
		}
		q = q.Where("period_start >= ? AND period_start < ?", from, to)
	}

	var summaries []PayrollSummary
	err := q.Order("period_start DESC, created_at DESC").Find(&summaries).Error
	return summaries, err
}

func (r *repository) FindByPeriod(
	ctx context.Context,
	periodStart, periodEnd time.Time,
) ([]PayrollSummary, error) {
	var summaries []PayrollSummary
	err := r.db.WithContext(ctx).
		Where("period_start = ? AND period_end = ?", periodStart, periodEnd).
		Order("payslip_number ASC").
		Find(&summaries).Error
	return summaries, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&PayrollSummary{}, "id = ?", id).Error
}

package deduction

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *DeductionRecord) error
	FindAll(ctx context.Context, employeeID, kind, status string) ([]DeductionRecord, error)
	FindByID(ctx context.Context, id string) (*DeductionRecord, error)
	// FindDue lists approved records that still carry balance, oldest
	// first so long-running loans settle in order.
	FindDue(ctx context.Context, employeeID string) ([]DeductionRecord, error)
	Update(ctx context.Context, d *DeductionRecord) error
	Delete(ctx context.Context, id string) error

	// DecrementBalance subtracts amount only while the balance stays
	// non-negative; zero rows affected means the guard rejected it.
	DecrementBalance(ctx context.Context, id string, amount decimal.Decimal) (int64, error)
	// IncrementBalance adds amount back only while the balance stays at
	// or below the original amount.
	IncrementBalance(ctx context.Context, id string, amount decimal.Decimal) (int64, error)
	MarkPaidIfSettled(ctx context.Context, id string) error
	ReopenIfOutstanding(ctx context.Context, id string) error

	CreateApplication(ctx context.Context, app *InstallmentApplication) error
	FindApplicationsByRecord(ctx context.Context, recordID string) ([]InstallmentApplication, error)
	FindApplicationsByEmployeeAndPeriod(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]InstallmentApplication, error)
	DeleteApplication(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, d *DeductionRecord) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context, employeeID, kind, status string) ([]DeductionRecord, error) {
	q := r.db.WithContext(ctx).Model(&DeductionRecord{})
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []DeductionRecord
	err := q.Order("date DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*DeductionRecord, error) {
	var d DeductionRecord
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindDue(ctx context.Context, employeeID string) ([]DeductionRecord, error) {
	var rows []DeductionRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ? AND remaining_unpaid > 0", employeeID, StatusApproved).
		Order("date ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, d *DeductionRecord) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&DeductionRecord{}, "id = ?", id).Error
}

func (r *repository) DecrementBalance(ctx context.Context, id string, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&DeductionRecord{}).
		Where("id = ? AND remaining_unpaid >= ?", id, amount).
		Updates(map[string]interface{}{
			"remaining_unpaid": gorm.Expr("remaining_unpaid - ?", amount),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) IncrementBalance(ctx context.Context, id string, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&DeductionRecord{}).
		Where("id = ? AND remaining_unpaid + ? <= amount", id, amount).
		Updates(map[string]interface{}{
			"remaining_unpaid": gorm.Expr("remaining_unpaid + ?", amount),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkPaidIfSettled(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&DeductionRecord{}).
		Where("id = ? AND status = ? AND remaining_unpaid = 0", id, StatusApproved).
		Update("status", StatusPaid).Error
}

func (r *repository) ReopenIfOutstanding(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&DeductionRecord{}).
		Where("id = ? AND status = ? AND remaining_unpaid > 0", id, StatusPaid).
		Update("status", StatusApproved).Error
}

func (r *repository) CreateApplication(ctx context.Context, app *InstallmentApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) FindApplicationsByRecord(ctx context.Context, recordID string) ([]InstallmentApplication, error) {
	var rows []InstallmentApplication
	err := r.db.WithContext(ctx).
		Where("deduction_record_id = ?", recordID).
		Order("period_start ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindApplicationsByEmployeeAndPeriod(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]InstallmentApplication, error) {
	var rows []InstallmentApplication
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND period_start = ? AND period_end = ?", employeeID, periodStart, periodEnd).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteApplication(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&InstallmentApplication{}, "id = ?", id).Error
}

package compensation

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_repo.go -destination=mock/compensation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Compensation) error
	CreateBatch(ctx context.Context, rows []Compensation) error
	Update(ctx context.Context, c *Compensation) error
	FindByID(ctx context.Context, id string) (*Compensation, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Compensation, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Compensation, error)
	// DeleteUnfrozenInRange clears every computed row in the range while
	// leaving manually overridden ones in place.
	DeleteUnfrozenInRange(ctx context.Context, employeeID string, start, end time.Time) error
	// DeleteAllInRange clears the range including overridden rows; the
	// forced recompute path uses it.
	DeleteAllInRange(ctx context.Context, employeeID string, start, end time.Time) error
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

func (r *repository) Create(ctx context.Context, c *Compensation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) CreateBatch(ctx context.Context, rows []Compensation) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

func (r *repository) Update(ctx context.Context, c *Compensation) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Compensation, error) {
	var c Compensation
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Compensation, error) {
	var c Compensation
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date).
		First(&c).Error
	return &c, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Compensation, error) {
	var rows []Compensation
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) DeleteUnfrozenInRange(ctx context.Context, employeeID string, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", start, end).
		Where("manual_override = ?", false).
		Delete(&Compensation{}).Error
}

func (r *repository) DeleteAllInRange(ctx context.Context, employeeID string, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", start, end).
		Delete(&Compensation{}).Error
}

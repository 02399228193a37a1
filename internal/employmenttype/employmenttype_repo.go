package employmenttype

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employmenttype_repo.go -destination=mock/employmenttype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, et *EmploymentType) error
	FindAll(ctx context.Context) ([]EmploymentType, error)
	FindByID(ctx context.Context, id string) (*EmploymentType, error)
	Update(ctx context.Context, et *EmploymentType) error
	ReplaceSchedule(ctx context.Context, employmentTypeID string, entries []EmploymentTypeSchedule) error
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

func (r *repository) Create(ctx context.Context, et *EmploymentType) error {
	return r.db.WithContext(ctx).Create(et).Error
}

func (r *repository) FindAll(ctx context.Context) ([]EmploymentType, error) {
	var types []EmploymentType
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmploymentType, error) {
	var et EmploymentType
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		First(&et, "id = ?", id).Error
	return &et, err
}

func (r *repository) Update(ctx context.Context, et *EmploymentType) error {
	return r.db.WithContext(ctx).
		Omit("Schedule").
		Save(et).Error
}

// ReplaceSchedule swaps the seven weekday rows in one shot so the
// one-entry-per-weekday invariant cannot be violated halfway.
func (r *repository) ReplaceSchedule(ctx context.Context, employmentTypeID string, entries []EmploymentTypeSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("employment_type_id = ?", employmentTypeID).
			Delete(&EmploymentTypeSchedule{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&EmploymentType{}, "id = ?", id).Error
}
